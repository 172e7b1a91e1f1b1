// pattern: Functional Core

package process

import (
	"errors"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"dia/internal/config"
)

// ErrUnrendered is returned for templates that were not rendered before
// reaching the executor.
var ErrUnrendered = errors.New("templated command must be rendered before it runs")

// Script returns the shell script that runs spec. Caller args are
// shell-quoted and appended to Literal, Chunked and Sequence commands; a
// parallel group takes no args. Pane-mode groups are handled by the Runner.
func Script(spec config.CommandSpec, args []string) (string, error) {
	switch s := spec.(type) {
	case config.Literal:
		return withArgs(string(s), args), nil
	case config.Chunked:
		return withArgs(s.Join(), args), nil
	case config.Sequence:
		return withArgs(strings.Join(s, " | "), args), nil
	case config.Parallel:
		return Wrap(s.Before, Group(s.Items, s.Sequence), s.After), nil
	case config.Templated:
		return "", ErrUnrendered
	}
	return "", errors.New("unknown command shape")
}

// Group runs items backgrounded and waits for all of them, or one after the
// other when sequential is set. A failing item never stops its siblings.
func Group(items []string, sequential bool) string {
	if sequential {
		if len(items) == 0 {
			return "{ :; }"
		}
		return "{ " + strings.Join(items, "; ") + "; }"
	}
	if len(items) == 0 {
		return "{ wait; }"
	}
	return "{ " + strings.Join(items, " & ") + " & wait; }"
}

// Wrap gates body on before and runs after once body is done.
func Wrap(before, body, after string) string {
	if before != "" {
		body = before + " && " + body
	}
	if after != "" {
		body = body + "; " + after
	}
	return body
}

func withArgs(cmd string, args []string) string {
	if len(args) == 0 {
		return cmd
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, cmd)
	for _, a := range args {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = a
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}
