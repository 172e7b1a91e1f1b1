// pattern: Imperative Shell
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"dia/internal/gitfiles"
)

// Context is what one invocation knows before the command tree exists.
type Context struct {
	// GitRoot is the enclosing repository root.
	GitRoot string
	// RootPath is the directory the project tree is built from: --cwd, a
	// leading path argument or GitRoot.
	RootPath string
	// CurrPath is the directory the tool was started in.
	CurrPath string
	// Args are the arguments left for the command tree.
	Args []string
}

// NewContext locates the git root above currPath and picks the root
// directory. Returns gitfiles.ErrNoRepo outside a repository.
func NewContext(args []string, currPath string) (Context, error) {
	gitRoot, err := gitfiles.FindRoot(currPath)
	if err != nil {
		return Context{}, err
	}

	ctx := Context{GitRoot: gitRoot, CurrPath: currPath, RootPath: gitRoot}

	args, cwd := extractCwd(args)
	switch {
	case cwd != "":
		ctx.RootPath = absFrom(currPath, cwd)
	case len(args) > 0 && isRootArg(currPath, args[0]):
		ctx.RootPath = absFrom(currPath, args[0])
		args = args[1:]
	}
	ctx.Args = args
	return ctx, nil
}

// IsGitRoot reports whether the tree is built from the repository root.
func (c Context) IsGitRoot() bool {
	return c.RootPath == c.GitRoot
}

// extractCwd pre-parses --cwd ahead of the command tree and removes it from
// args. Everything after "--" belongs to the command being run.
func extractCwd(args []string) ([]string, string) {
	fs := flag.NewFlagSet("dia", flag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	cwd := fs.String("cwd", "", "")

	end := len(args)
	for i, a := range args {
		if a == "--" {
			end = i
			break
		}
	}
	if err := fs.Parse(args[:end]); err != nil || *cwd == "" {
		return args, ""
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if i < end {
			if a == "--cwd" {
				i++
				continue
			}
			if strings.HasPrefix(a, "--cwd=") {
				continue
			}
		}
		out = append(out, a)
	}
	return out, *cwd
}

// isRootArg reports whether arg names an existing directory written as a
// path ("." or containing "/").
func isRootArg(currPath, arg string) bool {
	if arg != "." && !strings.Contains(arg, "/") {
		return false
	}
	info, err := os.Stat(absFrom(currPath, arg))
	return err == nil && info.IsDir()
}

func absFrom(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
