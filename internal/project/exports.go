// pattern: Functional Core

package project

import (
	"maps"
	"path/filepath"
	"slices"
)

// MergeExports exposes the commands of export targets on the exporting node.
// Target commands appear as "<export>:<key>", or as plain "<key>" for the
// export named ".". Children are merged before their parents, so a node can
// re-export what its children export. Unresolvable targets are dropped.
// When two targets yield the same key the later one wins, and synthesized
// keys win over the node's own commands.
func MergeExports(tree Project) Project {
	out := tree
	out.Exports = copyExports(tree.Exports)
	out.Children = nil
	if tree.Children != nil {
		out.Children = make([]Project, len(tree.Children))
	}
	for i, c := range tree.Children {
		out.Children[i] = MergeExports(c)
	}

	synthesized := make(map[string]CommandAndPath)
	for _, name := range slices.Sorted(maps.Keys(tree.Exports)) {
		prefix := name + ":"
		if name == "." {
			prefix = ""
		}
		for _, rel := range tree.Exports[name] {
			target, ok := Find(out, filepath.Join(tree.Path, rel))
			if !ok {
				continue
			}
			for key, cmd := range target.Commands {
				synthesized[prefix+key] = cmd
			}
		}
	}

	out.Commands = copyCommands(tree.Commands)
	if len(synthesized) > 0 {
		if out.Commands == nil {
			out.Commands = make(map[string]CommandAndPath, len(synthesized))
		}
		maps.Copy(out.Commands, synthesized)
	}
	return out
}
