// pattern: Functional Core

package project

// Enable marks every node that has commands or an enabled descendant.
// Only Enabled differs between input and output.
func Enable(tree Project) Project {
	out := tree
	out.Commands = copyCommands(tree.Commands)
	out.Exports = copyExports(tree.Exports)
	out.Enabled = len(tree.Commands) > 0
	out.Children = nil
	if tree.Children != nil {
		out.Children = make([]Project, len(tree.Children))
	}
	for i, c := range tree.Children {
		out.Children[i] = Enable(c)
		if out.Children[i].Enabled {
			out.Enabled = true
		}
	}
	return out
}
