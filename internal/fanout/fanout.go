// pattern: Functional Core

// Package fanout broadcasts one command name across every project that
// exposes it. Each match becomes a call back into the tool for that project,
// so the target applies its own argument handling; the calls run as one
// parallel group at the git root.
package fanout

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"dia/internal/command"
	"dia/internal/config"
	"dia/internal/process"
	"dia/internal/project"
)

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// Request describes one fan-out run.
type Request struct {
	Tool     string
	GitRoot  string
	Command  string
	Args     []string
	Panes    bool
	Sequence bool
}

// EmptyError reports that no project exposes the command. Nothing runs.
type EmptyError struct {
	Command     string
	Suggestions []string
}

func (e *EmptyError) Error() string {
	msg := fmt.Sprintf("No projects with command %s found", e.Command)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Collect walks tree in pre-order. A node that declares the command yields
// one re-invocation and its subtree is skipped. Results keep first-seen
// order without duplicates.
func Collect(tree project.Project, req Request) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(project.Project)
	walk = func(node project.Project) {
		if cmd, ok := command.Lookup(node.Commands, req.Command); ok {
			inv := command.Reinvocation(req.Tool, req.GitRoot, node.Path, cmd.Spec, req.Command, req.Args)
			if !seen[inv] {
				seen[inv] = true
				out = append(out, inv)
			}
			return
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(tree)
	return out
}

// Plan returns the job that runs every re-invocation, or an *EmptyError.
func Plan(tree project.Project, req Request) (process.Job, error) {
	invocations := Collect(tree, req)
	if len(invocations) == 0 {
		return process.Job{}, &EmptyError{Command: req.Command, Suggestions: Suggest(tree, req.Command)}
	}
	return process.Job{
		Spec: Group(invocations, req.Panes, req.Sequence),
		Dir:  req.GitRoot,
	}, nil
}

// Group wraps invocations in a parallel group. Panes close when done and
// run unsynchronized.
func Group(invocations []string, panes, sequence bool) config.Parallel {
	return config.Parallel{
		Items:       invocations,
		Panes:       panes,
		CloseOnDone: panes,
		Sync:        false,
		Sequence:    sequence,
	}
}

// Suggest returns the command names in tree closest to name.
func Suggest(tree project.Project, name string) []string {
	names := make(map[string]bool)
	project.Walk(tree, func(p project.Project) {
		for key := range p.Commands {
			names[command.Head(key)] = true
		}
	})

	type candidate struct {
		name string
		dist int
	}
	limit := max(2, len(name)/3)
	var candidates []candidate
	for _, n := range slices.Sorted(maps.Keys(names)) {
		if d := levenshtein.ComputeDistance(name, n); d <= limit {
			candidates = append(candidates, candidate{n, d})
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int { return a.dist - b.dist })

	var out []string
	for _, c := range candidates[:min(len(candidates), maxSuggestions)] {
		out = append(out, c.name)
	}
	return out
}
