// pattern: Functional Core

package command

import (
	"fmt"
	"strings"

	"dia/internal/config"
)

// Describe renders spec for help text and the command echo.
func Describe(spec config.CommandSpec) string {
	switch s := spec.(type) {
	case config.Literal:
		return string(s)
	case config.Chunked:
		return s.Join()
	case config.Sequence:
		return strings.Join(s, " | ")
	case config.Parallel:
		sep := " & "
		if s.Sequence {
			sep = "; "
		}
		desc := strings.Join(s.Items, sep)
		if s.Before != "" {
			desc = s.Before + " > " + desc
		}
		if s.After != "" {
			desc = desc + " > " + s.After
		}
		return desc
	case config.Templated:
		var b strings.Builder
		b.WriteString(s.Command)
		for _, a := range s.Args {
			fmt.Fprintf(&b, " <%s:%s>", a.Name, a.Type)
		}
		for _, o := range s.Options {
			fmt.Fprintf(&b, " --%s:%s", o.Name, o.Type)
		}
		return b.String()
	}
	return ""
}
