// pattern: Functional Core

// Package project builds the hierarchical project model: one node per
// directory that the git listing or a config declares, with the commands and
// exports of that directory's config.
package project

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"dia/internal/config"
	"dia/internal/gitfiles"
)

// CommandAndPath is a command together with the directory it runs in.
type CommandAndPath struct {
	Spec config.CommandSpec
	Path string
}

// Project is a node of the project tree. Children are owned by value; every
// pass returns a new tree.
type Project struct {
	Path     string
	Name     string
	Enabled  bool
	Commands map[string]CommandAndPath
	Exports  map[string][]string
	Children []Project
}

// ConfigResolver returns the config of a directory. Missing or invalid
// configs resolve to an empty config.Project.
type ConfigResolver interface {
	Resolve(dir string) config.Project
}

// ResolverFunc adapts a function to ConfigResolver.
type ResolverFunc func(dir string) config.Project

func (f ResolverFunc) Resolve(dir string) config.Project {
	return f(dir)
}

type location struct {
	name  string
	paths []string
}

// Build constructs the tree rooted at path. Sub-projects come from the
// listing's top-level keys first and from the config's projects second; a
// config entry replaces a listing entry with the same name.
func Build(r ConfigResolver, name, path string, listing gitfiles.Listing) Project {
	return build(r, name, filepath.Clean(path), listing, nil)
}

func build(r ConfigResolver, name, path string, listing gitfiles.Listing, ancestors []string) Project {
	cfg := r.Resolve(path)
	ancestors = append(ancestors, path)

	var locs []location
	index := make(map[string]int)
	set := func(key string, paths []string) {
		if i, ok := index[key]; ok {
			locs[i].paths = paths
			return
		}
		index[key] = len(locs)
		locs = append(locs, location{name: key, paths: paths})
	}
	for _, key := range listing.Keys() {
		set(key, []string{filepath.Join(path, key)})
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.Projects)) {
		var paths []string
		for _, rel := range cfg.Projects[key] {
			paths = append(paths, filepath.Join(path, rel))
		}
		set(key, paths)
	}

	var children []Project
	for _, loc := range locs {
		inner := listing.Descend(loc.name)
		for _, p := range loc.paths {
			// A location pointing back up the tree would never terminate.
			if slices.Contains(ancestors, p) {
				continue
			}
			children = append(children, build(r, loc.name, p, inner, ancestors))
		}
	}

	var commands map[string]CommandAndPath
	if len(cfg.Commands) > 0 {
		commands = make(map[string]CommandAndPath, len(cfg.Commands))
		for k, spec := range cfg.Commands {
			commands[k] = CommandAndPath{Spec: spec, Path: path}
		}
	}

	return Project{
		Path:     path,
		Name:     name,
		Commands: commands,
		Exports:  copyExports(cfg.Exports),
		Children: children,
	}
}

// Find returns the node whose path equals target, searching only subtrees
// whose path is a prefix of target.
func Find(tree Project, target string) (Project, bool) {
	target = filepath.Clean(target)
	if tree.Path == target {
		return tree, true
	}
	if !isWithin(target, tree.Path) {
		return Project{}, false
	}
	for _, c := range tree.Children {
		if found, ok := Find(c, target); ok {
			return found, true
		}
	}
	return Project{}, false
}

// Walk visits every node in pre-order.
func Walk(tree Project, fn func(Project)) {
	fn(tree)
	for _, c := range tree.Children {
		Walk(c, fn)
	}
}

func isWithin(target, dir string) bool {
	rel, err := filepath.Rel(dir, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func copyCommands(m map[string]CommandAndPath) map[string]CommandAndPath {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func copyExports(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
