// pattern: Imperative Shell

package tmux

import (
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"dia/internal/logging"
)

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

// Client prepares pane-mode runs on the local tmux.
type Client struct {
	lookPath LookPathFunc
	getenv   func(string) string
	logger   *logging.ScopedLogger
}

// NewClient creates a Client backed by the process PATH and environment.
func NewClient(logger *logging.ScopedLogger) *Client {
	return NewClientWithLookup(exec.LookPath, os.Getenv, logger)
}

// NewClientWithLookup creates a Client with injected lookups (for testing).
func NewClientWithLookup(lookPath LookPathFunc, getenv func(string) string, logger *logging.ScopedLogger) *Client {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Client{lookPath: lookPath, getenv: getenv, logger: logger}
}

// Check verifies that tmux and xpanes are installed.
func (c *Client) Check() error {
	for _, tool := range []string{ToolTmux, ToolXpanes} {
		path, err := c.lookPath(tool)
		if err != nil {
			c.logger.Warn("pane tool missing", "tool", tool, "error", err)
			return &MissingToolError{Tool: tool}
		}
		c.logger.Debug("pane tool found", "tool", tool, "path", path)
	}
	return nil
}

// InSession reports whether the tool runs inside a tmux session.
func (c *Client) InSession() bool {
	return c.getenv("TMUX") != ""
}

// PaneCommand returns the shell command that opens one pane per command.
// Inside a session the panes open in the current window; otherwise xpanes
// starts a fresh session.
func (c *Client) PaneCommand(opts PaneOptions) string {
	parts := []string{ToolXpanes}
	if c.InSession() {
		parts = append(parts, "-x")
	}
	if opts.CloseOnDone {
		parts = append(parts, "-s")
	}
	if !opts.Sync {
		parts = append(parts, "-d")
	}
	parts = append(parts, "-e")
	for _, cmd := range opts.Commands {
		parts = append(parts, quote(cmd))
	}

	line := strings.Join(parts, " ")
	c.logger.Debug("pane command", "panes", len(opts.Commands), "in_session", c.InSession())
	return line
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return s
	}
	return q
}
