// pattern: Imperative Shell

package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"dia/internal/config"
	"dia/internal/logging"
	"dia/internal/tmux"
)

// Job is one command to execute. Templated specs must be rendered into a
// Literal first.
type Job struct {
	Spec config.CommandSpec
	Dir  string
	Args []string
}

// Runner spawns jobs through the configured shell, one at a time, with the
// tool's standard streams.
type Runner struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	panes  *tmux.Client
	logger *logging.ScopedLogger
}

// NewRunner creates a Runner using shell and the process's standard streams.
func NewRunner(shell string, panes *tmux.Client, logger *logging.ScopedLogger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{
		Shell:  shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		panes:  panes,
		logger: logger,
	}
}

// Script returns the script job runs. Pane mode checks for tmux first and
// fails with a *tmux.MissingToolError before anything is spawned.
func (r *Runner) Script(job Job) (string, error) {
	par, ok := job.Spec.(config.Parallel)
	if !ok || !par.Panes {
		return Script(job.Spec, job.Args)
	}
	if r.panes == nil {
		return "", &tmux.MissingToolError{Tool: tmux.ToolTmux}
	}
	if err := r.panes.Check(); err != nil {
		return "", err
	}
	pane := r.panes.PaneCommand(tmux.PaneOptions{
		Commands:    par.Items,
		CloseOnDone: par.CloseOnDone,
		Sync:        par.Sync,
	})
	return Wrap(par.Before, pane, par.After), nil
}

// Grouped reports whether job runs in a process group of its own. Members
// of a backgrounded group outlive the shell that started them, so they are
// signalled as a group. Everything else stays in the tool's group and keeps
// the terminal.
func Grouped(job Job) bool {
	par, ok := job.Spec.(config.Parallel)
	return ok && !par.Panes
}

// Run executes job and waits for it. The returned code is the child's exit
// code; err is set only when nothing could be spawned.
func (r *Runner) Run(ctx context.Context, job Job) (int, error) {
	script, err := r.Script(job)
	if err != nil {
		return 1, err
	}

	cmd := exec.CommandContext(ctx, r.Shell, "-c", script)
	cmd.Dir = job.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	grouped := Grouped(job)
	if grouped {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Cancel = func() error {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
	}

	r.logger.Info("starting command", "dir", job.Dir, "shell", r.Shell, "script", script, "grouped", grouped)

	if err := cmd.Start(); err != nil {
		r.logger.Error("failed to start command", "error", err, "dir", job.Dir)
		return 1, fmt.Errorf("start %s: %w", r.Shell, err)
	}

	guard := Acquire(cmd.Process, grouped, r.logger)
	defer guard.Release()

	err = cmd.Wait()
	guard.Exited()

	code := ExitCode(err)
	if code != 0 {
		r.logger.Warn("command exited", "exit_code", code, "dir", job.Dir)
	} else {
		r.logger.Info("command exited cleanly", "dir", job.Dir)
	}
	return code, nil
}
