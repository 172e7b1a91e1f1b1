// pattern: Functional Core

package command

import (
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"dia/internal/config"
)

// Reinvocation builds the call back into the tool that runs name in the
// project at nodePath: "<tool> <path relative to gitRoot> <name> <args...>".
// A literal that passes --cwd moves the relative path into that directory.
// A template's own path is left to the re-invoked tool, which resolves it
// while rendering.
func Reinvocation(tool, gitRoot, nodePath string, spec config.CommandSpec, name string, args []string) string {
	rel, err := filepath.Rel(gitRoot, nodePath)
	if err != nil || rel == "" {
		rel = "."
	}

	if lit, ok := spec.(config.Literal); ok {
		if cwd := cwdFlag(string(lit)); cwd != "" {
			rel = filepath.Join(rel, cwd)
		}
	}

	parts := []string{tool, rel, name}
	for _, a := range args {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Quote shell-quotes s for bash. Strings bash cannot represent, such as
// ones containing NUL bytes, are returned unchanged.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return s
	}
	return q
}

// cwdFlag returns the value of a --cwd flag passed anywhere in a literal
// command line.
func cwdFlag(line string) string {
	words := splitWords(line)
	for i, w := range words {
		if v, ok := strings.CutPrefix(w, "--cwd="); ok {
			return v
		}
		if w == "--cwd" && i+1 < len(words) {
			return words[i+1]
		}
	}
	return ""
}

// splitWords returns the literal words of every simple command in line.
// Unparsable input falls back to whitespace splitting.
func splitWords(line string) []string {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash), syntax.KeepComments(false))
	file, err := parser.Parse(strings.NewReader(line), "")
	if err != nil {
		return strings.Fields(line)
	}

	var words []string
	syntax.Walk(file, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok {
			for _, w := range call.Args {
				words = append(words, wordLit(w))
			}
		}
		return true
	})
	return words
}

func wordLit(word *syntax.Word) string {
	var b strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			b.WriteString(p.Value)
		case *syntax.SglQuoted:
			b.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, qp := range p.Parts {
				if lit, ok := qp.(*syntax.Lit); ok {
					b.WriteString(lit.Value)
				}
			}
		}
	}
	return b.String()
}
