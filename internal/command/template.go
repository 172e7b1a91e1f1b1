// pattern: Functional Core

package command

import (
	"path/filepath"
	"regexp"
	"strings"

	"dia/internal/config"
)

var placeholder = regexp.MustCompile(`\$\{([^{}]*)\}`)

// Bindings are the values bound to a template's args and options. Scalars
// are single-element slices; unbound names are absent.
type Bindings struct {
	Args    map[string][]string
	Options map[string][]string
}

// Rendered is a fully substituted template and the directory it runs in.
type Rendered struct {
	Command string
	Dir     string
}

// Render substitutes the placeholders of tpl in a single left-to-right pass;
// substituted text is never scanned again. Recognized forms:
//
//	${var.name}            fixed var value
//	${arg.name}            bound positional, space-joined when variadic
//	${--flag -pname}       "--flag -p<value>" per bound value of option name
//	${name}                bound option value(s), space-joined
//
// A renamed placeholder for an option suppresses that option's plain form,
// which is then left in place. Plain ${name} falls back to args and vars of
// that name. Declared but unbound names render empty; undeclared
// placeholders such as ${HOME} are left to the shell.
func Render(tpl config.Templated, projectDir string, b Bindings) Rendered {
	vars := make(map[string]string, len(tpl.Vars))
	for _, v := range tpl.Vars {
		vars[v.Name] = v.Value
	}
	args := make(map[string]bool, len(tpl.Args))
	for _, a := range tpl.Args {
		args[a.Name] = true
	}

	renamed := make([]*regexp.Regexp, len(tpl.Options))
	for i, o := range tpl.Options {
		renamed[i] = regexp.MustCompile(`^(--?.+) (.*)` + regexp.QuoteMeta(o.Name) + `$`)
	}

	// Options with a renamed placeholder anywhere in the template.
	hasRenamed := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(tpl.Command, -1) {
		for i, o := range tpl.Options {
			if renamed[i].MatchString(m[1]) {
				hasRenamed[o.Name] = true
			}
		}
	}

	cmd := placeholder.ReplaceAllStringFunc(tpl.Command, func(match string) string {
		inner := match[2 : len(match)-1]

		if name, ok := strings.CutPrefix(inner, "var."); ok {
			if v, ok := vars[name]; ok {
				return v
			}
			return match
		}
		if name, ok := strings.CutPrefix(inner, "arg."); ok {
			if args[name] {
				return strings.Join(b.Args[name], " ")
			}
			return match
		}

		for i, o := range tpl.Options {
			m := renamed[i].FindStringSubmatch(inner)
			if m == nil {
				continue
			}
			values := b.Options[o.Name]
			parts := make([]string, 0, len(values))
			for _, v := range values {
				parts = append(parts, m[1]+" "+m[2]+v)
			}
			return strings.Join(parts, " ")
		}

		for _, o := range tpl.Options {
			if o.Name != inner {
				continue
			}
			if hasRenamed[o.Name] {
				return match
			}
			return strings.Join(b.Options[o.Name], " ")
		}

		if args[inner] {
			return strings.Join(b.Args[inner], " ")
		}
		if v, ok := vars[inner]; ok {
			return v
		}
		return match
	})

	return Rendered{Command: cmd, Dir: Dir(tpl, projectDir)}
}

// Dir is the directory a template runs in: its path resolved against the
// project directory, or the project directory itself.
func Dir(tpl config.Templated, projectDir string) string {
	switch {
	case tpl.Path == "":
		return projectDir
	case filepath.IsAbs(tpl.Path):
		return filepath.Clean(tpl.Path)
	default:
		return filepath.Join(projectDir, tpl.Path)
	}
}
