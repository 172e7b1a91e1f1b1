// pattern: Functional Core

// Package command turns a typed command name into something executable:
// multi-token key grammars, lookup in a project's command map, template
// rendering and the re-invocation strings used by fan-out.
package command

import (
	"regexp"
	"strings"

	"dia/internal/config"
)

var (
	arrayOptionToken = regexp.MustCompile(`^\[--([^,\]]+)(?:,-([^\]]+))?\]$`)
	optionToken      = regexp.MustCompile(`^--([^,]+)(?:,-(.+))?$`)
	arrayArgToken    = regexp.MustCompile(`^\[(.+)\]$`)
)

// Grammar is the decomposition of a multi-token command key such as
// "deploy [--env,-e] target".
type Grammar struct {
	Head    string
	Args    []config.Arg
	Options []config.Option
}

// Decompose splits key on whitespace. The first token is the head; every
// further token becomes, in order:
//
//	[--name] or [--name,-a]  repeatable option
//	--name or --name,-a      string option
//	[name]                   variadic positional
//	name                     string positional
func Decompose(key string) Grammar {
	tokens := strings.Fields(key)
	if len(tokens) == 0 {
		return Grammar{}
	}

	g := Grammar{Head: tokens[0]}
	for _, tok := range tokens[1:] {
		if m := arrayOptionToken.FindStringSubmatch(tok); m != nil {
			g.Options = append(g.Options, config.Option{Name: m[1], Alias: m[2], Type: config.TypeArray})
			continue
		}
		if m := optionToken.FindStringSubmatch(tok); m != nil {
			g.Options = append(g.Options, config.Option{Name: m[1], Alias: m[2], Type: config.TypeString})
			continue
		}
		if m := arrayArgToken.FindStringSubmatch(tok); m != nil {
			g.Args = append(g.Args, config.Arg{Name: m[1], Type: config.TypeArray})
			continue
		}
		g.Args = append(g.Args, config.Arg{Name: tok, Type: config.TypeString})
	}
	return g
}

// IsMultiToken reports whether key declares a grammar beyond its head.
func IsMultiToken(key string) bool {
	return len(strings.Fields(key)) > 1
}

// Head returns the first token of key.
func Head(key string) string {
	fields := strings.Fields(key)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Templated wraps command in a template carrying the grammar's args and
// options.
func (g Grammar) Templated(command string) config.Templated {
	return config.Templated{Command: command, Args: g.Args, Options: g.Options}
}
