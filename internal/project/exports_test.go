// pattern: Functional Core

package project

import (
	"testing"

	"dia/internal/config"
)

func lit(s string) config.CommandSpec { return config.Literal(s) }

func exportTree() Project {
	return Project{
		Path: "/r",
		Name: "r",
		Exports: map[string][]string{
			"pkg": {"packages/a", "packages/b", "packages/missing"},
		},
		Commands: map[string]CommandAndPath{"lint": {Spec: lit("eslint ."), Path: "/r"}},
		Children: []Project{
			{Path: "/r/packages", Name: "packages", Children: []Project{
				{Path: "/r/packages/a", Name: "a", Commands: map[string]CommandAndPath{
					"build": {Spec: lit("build a"), Path: "/r/packages/a"},
					"test":  {Spec: lit("test a"), Path: "/r/packages/a"},
				}},
				{Path: "/r/packages/b", Name: "b", Commands: map[string]CommandAndPath{
					"build": {Spec: lit("build b"), Path: "/r/packages/b"},
				}},
			}},
		},
	}
}

func TestMergeExports_LastTargetWins(t *testing.T) {
	got := MergeExports(exportTree())

	build, ok := got.Commands["pkg:build"]
	if !ok {
		t.Fatal("pkg:build not synthesized")
	}
	if build.Path != "/r/packages/b" || build.Spec != lit("build b") {
		t.Errorf("pkg:build = %+v, want the later target b", build)
	}
	if test := got.Commands["pkg:test"]; test.Path != "/r/packages/a" {
		t.Errorf("pkg:test = %+v, want target a", test)
	}
	if _, ok := got.Commands["lint"]; !ok {
		t.Error("own command lint lost")
	}
	if len(got.Commands) != 3 {
		t.Errorf("got %d commands, want 3", len(got.Commands))
	}
}

func TestMergeExports_DotExportIsUnprefixed(t *testing.T) {
	tree := exportTree()
	tree.Exports = map[string][]string{".": {"packages/a"}}
	tree.Commands = map[string]CommandAndPath{"build": {Spec: lit("root build"), Path: "/r"}}

	got := MergeExports(tree)
	if b := got.Commands["build"]; b.Path != "/r/packages/a" {
		t.Errorf("build = %+v, synthesized entry should replace own command", b)
	}
	if _, ok := got.Commands["test"]; !ok {
		t.Error("test not synthesized")
	}
}

func TestMergeExports_ChildrenFirst(t *testing.T) {
	tree := exportTree()
	tree.Exports = map[string][]string{"all": {"packages"}}
	tree.Children[0].Exports = map[string][]string{"b": {"b"}}

	got := MergeExports(tree)

	if _, ok := got.Children[0].Commands["b:build"]; !ok {
		t.Fatal("child export b:build not synthesized")
	}
	reexported, ok := got.Commands["all:b:build"]
	if !ok {
		t.Fatal("parent did not see child's synthesized command")
	}
	if reexported.Path != "/r/packages/b" {
		t.Errorf("all:b:build path = %q, want /r/packages/b", reexported.Path)
	}
}

func TestMergeExports_ReexportKeepsCommandDir(t *testing.T) {
	tree := exportTree()
	tree.Exports = map[string][]string{"pkgs": {"packages"}}
	tree.Children[0].Exports = map[string][]string{".": {"a"}}

	got := MergeExports(tree)

	// The export target is /r/packages, but the command it re-exports
	// runs in /r/packages/a.
	for _, key := range []string{"pkgs:build", "pkgs:test"} {
		cmd, ok := got.Commands[key]
		if !ok {
			t.Fatalf("%s not synthesized", key)
		}
		if cmd.Path != "/r/packages/a" {
			t.Errorf("%s path = %q, want /r/packages/a", key, cmd.Path)
		}
	}
	if got.Children[0].Commands["build"].Path != "/r/packages/a" {
		t.Errorf("packages build path = %q, want /r/packages/a", got.Children[0].Commands["build"].Path)
	}
}

func TestMergeExports_UnresolvedTargetsDropped(t *testing.T) {
	tree := exportTree()
	tree.Exports = map[string][]string{"ghost": {"nowhere"}}

	got := MergeExports(tree)
	if len(got.Commands) != 1 {
		t.Errorf("Commands = %v, want only lint", got.Commands)
	}
}

func TestMergeExports_DoesNotMutateInput(t *testing.T) {
	tree := exportTree()
	_ = MergeExports(tree)
	if len(tree.Commands) != 1 {
		t.Errorf("input commands mutated: %v", tree.Commands)
	}
}
