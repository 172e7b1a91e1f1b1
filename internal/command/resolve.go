// pattern: Functional Core

package command

import (
	"maps"
	"slices"

	"dia/internal/config"
	"dia/internal/project"
)

// Normalize re-keys every multi-token command under its head. Literal and
// Chunked commands become templates carrying the key's grammar; other shapes
// keep their spec. Multi-token keys are applied after plain keys, in sorted
// order, so a head declared both ways resolves to the grammar.
func Normalize(commands map[string]project.CommandAndPath) map[string]project.CommandAndPath {
	out := make(map[string]project.CommandAndPath, len(commands))
	var multi []string
	for key, cmd := range commands {
		if IsMultiToken(key) {
			multi = append(multi, key)
			continue
		}
		out[key] = cmd
	}
	slices.Sort(multi)
	for _, key := range multi {
		out[Head(key)] = normalizeEntry(key, commands[key])
	}
	return out
}

func normalizeEntry(key string, cmd project.CommandAndPath) project.CommandAndPath {
	if !IsMultiToken(key) {
		return cmd
	}
	g := Decompose(key)
	switch spec := cmd.Spec.(type) {
	case config.Literal:
		cmd.Spec = g.Templated(string(spec))
	case config.Chunked:
		cmd.Spec = g.Templated(spec.Join())
	}
	return cmd
}

// Resolve finds the command a user typed. A verbatim key wins; otherwise the
// first multi-token key whose head matches the first typed token is used.
// Anything else is run as an opaque literal in dir and reported as not
// found.
func Resolve(typed string, commands map[string]project.CommandAndPath, dir string) (project.CommandAndPath, bool) {
	if cmd, ok := commands[typed]; ok {
		return normalizeEntry(typed, cmd), true
	}
	head := Head(typed)
	for _, key := range slices.Sorted(maps.Keys(commands)) {
		if IsMultiToken(key) && Head(key) == head {
			return normalizeEntry(key, commands[key]), true
		}
	}
	return project.CommandAndPath{Spec: config.Literal(typed), Path: dir}, false
}

// Declares reports whether commands exposes name, either verbatim or as the
// head of a multi-token key.
func Declares(commands map[string]project.CommandAndPath, name string) bool {
	_, ok := Lookup(commands, name)
	return ok
}

// Lookup is Resolve without the opaque fallback.
func Lookup(commands map[string]project.CommandAndPath, name string) (project.CommandAndPath, bool) {
	cmd, ok := Resolve(name, commands, "")
	if !ok {
		return project.CommandAndPath{}, false
	}
	return cmd, true
}
