package project

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"dia/internal/config"
	"dia/internal/gitfiles"
)

type configs map[string]config.Project

func (c configs) Resolve(dir string) config.Project {
	return c[dir]
}

func names(ps []Project) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Name+"="+p.Path)
	}
	return out
}

func TestBuild_ListingThenConfig(t *testing.T) {
	listing := gitfiles.Bucket([]string{"apps", "apps/web", "apps/api", "libs", "tools"})
	r := configs{
		"/repo": {
			Projects: map[string][]string{
				"libs":  {"packages/libs"},
				"infra": {"deploy/infra"},
			},
			Commands: map[string]config.CommandSpec{"up": config.Literal("docker compose up")},
		},
	}

	tree := Build(r, "repo", "/repo", listing)

	want := []string{
		"apps=/repo/apps",
		"libs=/repo/packages/libs",
		"tools=/repo/tools",
		"infra=/repo/deploy/infra",
	}
	if diff := cmp.Diff(want, names(tree.Children)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	apps := tree.Children[0]
	if diff := cmp.Diff([]string{"web=/repo/apps/web", "api=/repo/apps/api"}, names(apps.Children)); diff != "" {
		t.Errorf("apps children mismatch (-want +got):\n%s", diff)
	}

	up, ok := tree.Commands["up"]
	if !ok || up.Path != "/repo" || up.Spec != config.Literal("docker compose up") {
		t.Errorf("Commands[up] = %+v", up)
	}
	if tree.Enabled {
		t.Error("Build must leave Enabled false")
	}
}

func TestBuild_ListLocationsShareName(t *testing.T) {
	listing := gitfiles.Bucket([]string{"services", "services/a", "services/b"})
	r := configs{
		"/repo": {Projects: map[string][]string{"services": {"services/a", "services/b"}}},
	}

	tree := Build(r, "repo", "/repo", listing)

	want := []string{"services=/repo/services/a", "services=/repo/services/b"}
	if diff := cmp.Diff(want, names(tree.Children)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	// Both children see the listing below "services".
	for _, c := range tree.Children {
		if diff := cmp.Diff([]string{"a=" + c.Path + "/a", "b=" + c.Path + "/b"}, names(c.Children)); diff != "" {
			t.Errorf("%s children mismatch (-want +got):\n%s", c.Path, diff)
		}
	}
}

func TestBuild_ConfigAddsChildrenAtLeaf(t *testing.T) {
	listing := gitfiles.Bucket([]string{"web"})
	r := configs{
		"/repo/web": {Projects: map[string][]string{"e2e": {"tests/e2e"}}},
	}

	tree := Build(r, "repo", "/repo", listing)
	web := tree.Children[0]
	if diff := cmp.Diff([]string{"e2e=/repo/web/tests/e2e"}, names(web.Children)); diff != "" {
		t.Errorf("web children mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SkipsLocationsPointingUp(t *testing.T) {
	r := configs{
		"/repo":     {Projects: map[string][]string{"self": {"."}, "web": {"web"}}},
		"/repo/web": {Projects: map[string][]string{"up": {".."}}},
	}

	tree := Build(r, "repo", "/repo", gitfiles.Listing{})
	if diff := cmp.Diff([]string{"web=/repo/web"}, names(tree.Children)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if len(tree.Children[0].Children) != 0 {
		t.Errorf("web children = %v, want none", names(tree.Children[0].Children))
	}
}

func TestFind(t *testing.T) {
	tree := Project{Path: "/r", Children: []Project{
		{Path: "/r/apps", Children: []Project{{Path: "/r/apps/web", Name: "web"}}},
		{Path: "/r/app", Name: "app"},
	}}

	if p, ok := Find(tree, "/r/apps/web/"); !ok || p.Name != "web" {
		t.Errorf("Find(/r/apps/web/) = %+v, %v", p, ok)
	}
	if p, ok := Find(tree, "/r/app"); !ok || p.Name != "app" {
		t.Errorf("Find(/r/app) = %+v, %v", p, ok)
	}
	if _, ok := Find(tree, "/r/apps/api"); ok {
		t.Error("Find(/r/apps/api) should not resolve")
	}
	if _, ok := Find(tree, "/elsewhere"); ok {
		t.Error("Find(/elsewhere) should not resolve")
	}
}

func TestWalk_PreOrder(t *testing.T) {
	tree := Project{Name: "r", Children: []Project{
		{Name: "a", Children: []Project{{Name: "a1"}}},
		{Name: "b"},
	}}

	var got []string
	Walk(tree, func(p Project) { got = append(got, p.Name) })
	if diff := cmp.Diff([]string{"r", "a", "a1", "b"}, got); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}
