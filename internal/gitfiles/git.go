// pattern: Imperative Shell

package gitfiles

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"dia/internal/logging"
)

// Executor runs git with args in dir and returns its stdout.
type Executor func(ctx context.Context, dir string, args ...string) (string, error)

// Lister produces the directory listing a project tree is built from:
// tracked directories at HEAD, directories changed since HEAD~1 and
// untracked directories.
type Lister struct {
	exec   Executor
	ignore []string
	logger *logging.ScopedLogger
}

// NewLister creates a Lister. A nil executor runs the git binary; a nil
// ignore list uses DefaultIgnore.
func NewLister(exec Executor, ignore []string, logger *logging.ScopedLogger) *Lister {
	if exec == nil {
		exec = runGit
	}
	if ignore == nil {
		ignore = DefaultIgnore
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Lister{exec: exec, ignore: ignore, logger: logger}
}

// List returns the bucketed listing for root.
func (l *Lister) List(ctx context.Context, root string) (Listing, error) {
	paths, err := l.Paths(ctx, root)
	if err != nil {
		return Listing{}, err
	}
	return Bucket(paths), nil
}

// Paths returns the filtered relative directory paths below root.
func (l *Lister) Paths(ctx context.Context, root string) ([]string, error) {
	tracked, err := l.exec(ctx, root, "ls-tree", "-d", "-r", "--name-only", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("list tracked dirs: %w", err)
	}
	raw := lines(tracked)

	// A repository with a single commit has no HEAD~1.
	diff, err := l.exec(ctx, root, "diff", "--name-only", "--relative", "--diff-filter=ACMRTUXB", "HEAD~1", "--", ".")
	if err != nil {
		l.logger.Debug("skipping changed dirs", "root", root, "error", err)
	}
	raw = append(raw, withoutDots(lines(diff))...)

	status, err := l.exec(ctx, root, "status", "--short", "--", ".")
	if err != nil {
		l.logger.Debug("skipping untracked dirs", "root", root, "error", err)
	}
	raw = append(raw, withoutDots(untracked(status))...)

	paths := Filter(root, raw, l.ignore)
	l.logger.Debug("listed dirs", "root", root, "count", len(paths))
	return paths, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

func lines(output string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// untracked extracts "?? path" entries from `git status --short`.
func untracked(output string) []string {
	var out []string
	for _, line := range lines(output) {
		if rest, ok := strings.CutPrefix(line, "?? "); ok {
			out = append(out, strings.TrimSuffix(rest, "/"))
		}
	}
	return out
}

// withoutDots drops entries that look like files.
func withoutDots(paths []string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		if !strings.Contains(p, ".") {
			out = append(out, p)
		}
	}
	return out
}
