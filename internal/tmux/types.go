// pattern: Functional Core

package tmux

import "fmt"

// Tools required for pane mode. xpanes drives tmux to open one pane per
// command.
const (
	ToolTmux   = "tmux"
	ToolXpanes = "xpanes"
)

// PaneOptions describes one pane-mode run.
type PaneOptions struct {
	Commands []string
	// CloseOnDone closes each pane when its command exits.
	CloseOnDone bool
	// Sync keeps keyboard input synchronized across panes.
	Sync bool
}

// MissingToolError reports that a program needed for pane mode is not on
// PATH. Nothing has been spawned when it is returned.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("%s not installed. Please install tmux and tmux-xpanes to run commands in panes", e.Tool)
}
