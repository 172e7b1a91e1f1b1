// pattern: Functional Core

package project

import (
	"strings"
	"unicode/utf8"
)

// minAliasLen is the name length above which a short alias is registered.
const minAliasLen = 6

// Alias derives the short form of a project name: split on "-" if present,
// else on "_", else take the first three characters.
func Alias(name string) string {
	switch {
	case strings.Contains(name, "-"):
		return SplitAlias(name, "-")
	case strings.Contains(name, "_"):
		return SplitAlias(name, "_")
	}
	return firstRunes(name, 3)
}

// SplitAlias keeps max(0, 3-n) leading characters of name, where n+1 is the
// number of non-empty segments, and appends the first character of every
// segment after the first.
func SplitAlias(name, sep string) string {
	var segments []string
	for _, s := range strings.Split(name, sep) {
		if s != "" {
			segments = append(segments, s)
		}
	}

	keep := 3 - (len(segments) - 1)
	if len(segments) == 0 {
		keep = 3
	}
	if keep < 0 {
		keep = 0
	}

	var b strings.Builder
	b.WriteString(firstRunes(name, keep))
	for _, s := range segments[min(1, len(segments)):] {
		r, _ := utf8.DecodeRuneInString(s)
		b.WriteRune(r)
	}
	return b.String()
}

// Aliases lists the extra names a project answers to: its derived alias when
// the name is long, and "." when it lives at currPath.
func Aliases(p Project, currPath string) []string {
	var aliases []string
	if utf8.RuneCountInString(p.Name) > minAliasLen {
		if a := Alias(p.Name); a != "" && a != p.Name {
			aliases = append(aliases, a)
		}
	}
	if currPath != "" && p.Path == currPath {
		aliases = append(aliases, ".")
	}
	return aliases
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
