// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dia/internal/config"
	"dia/internal/fanout"
	"dia/internal/gitfiles"
	"dia/internal/logging"
	"dia/internal/process"
	"dia/internal/project"
	"dia/internal/tmux"
)

// JobRunner executes one job and returns its exit code.
type JobRunner interface {
	Run(ctx context.Context, job process.Job) (int, error)
}

// DirLister lists the tracked directories below a root.
type DirLister interface {
	List(ctx context.Context, root string) (gitfiles.Listing, error)
}

// App is one invocation of the tool.
type App struct {
	settings config.Config
	logs     logging.LoggerProvider
	stdout   io.Writer
	stderr   io.Writer
	runner   JobRunner
	lister   DirLister
	getwd    func() (string, error)
}

// NewApp wires an App to the real shell, git and terminal.
func NewApp(settings config.Config, logs logging.LoggerProvider) *App {
	panes := tmux.NewClient(logs.For("tmux"))
	return &App{
		settings: settings,
		logs:     logs,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		runner:   process.NewRunner(settings.Shell, panes, logs.For("process")),
		lister:   gitfiles.NewLister(nil, settings.Ignore, logs.For("git")),
		getwd:    os.Getwd,
	}
}

// Execute runs the command line args and returns the exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	logger := a.logs.For("cli")
	printer := NewPrinter(a.stdout, a.stderr, a.settings.Theme, a.settings.NoColor)

	cwd, err := a.getwd()
	if err != nil {
		printer.Errorf("cannot read working directory: %v", err)
		return 1
	}

	dctx, err := NewContext(args, cwd)
	if errors.Is(err, gitfiles.ErrNoRepo) {
		printer.Error("No git repo found")
		return 1
	}
	if err != nil {
		printer.Error(err.Error())
		return 1
	}
	logger.Debug("invocation", "git_root", dctx.GitRoot, "root", dctx.RootPath, "args", dctx.Args)

	tree, err := a.buildTree(ctx, dctx, printer)
	if err != nil {
		printer.Error(err.Error())
		return 1
	}

	exitCode := 0
	builder := &treeBuilder{
		ctx:      dctx,
		settings: a.settings,
		execute: func(cmd *cobra.Command, job process.Job, echo string) error {
			printer.Command(relPath(dctx.GitRoot, job.Dir), echo, job.Args)
			code, err := a.runner.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			exitCode = code
			return nil
		},
	}

	root := builder.Root(tree)
	root.SetArgs(dctx.Args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err = root.ExecuteContext(ctx)

	var empty *fanout.EmptyError
	switch {
	case errors.As(err, &empty):
		_ = root.Help()
		printer.Error(empty.Error())
		return 0
	case err != nil:
		logger.Warn("command failed", "error", err)
		printer.Error(err.Error())
		return 1
	}
	return exitCode
}

// buildTree resolves every project below the root. Exports are merged
// after enabling; projects reachable only through exports are enabled by
// the second pass.
func (a *App) buildTree(ctx context.Context, dctx Context, printer *Printer) (project.Project, error) {
	listing, err := a.lister.List(ctx, dctx.RootPath)
	if err != nil {
		return project.Project{}, err
	}

	resolver := config.NewResolver(a.settings.ConfigName, a.logs.For("config"), func(err error) {
		printer.Error(err.Error())
	})

	tree := project.Build(resolver, filepath.Base(dctx.RootPath), dctx.RootPath, listing)
	tree = project.Enable(tree)
	tree = project.MergeExports(tree)
	return project.Enable(tree), nil
}

// relPath renders path relative to the git root, "." for the root itself.
func relPath(gitRoot, path string) string {
	rel, err := filepath.Rel(gitRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
