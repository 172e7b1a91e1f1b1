// pattern: Functional Core

package command

import (
	"testing"

	"dia/internal/config"
)

func TestRender(t *testing.T) {
	tpl := config.Templated{
		Command: "kubectl --context ${var.ctx} apply -f ${arg.file} ${--namespace env} ${tag} ${HOME}",
		Vars:    []config.Var{{Name: "ctx", Value: "prod"}},
		Args:    []config.Arg{{Name: "file", Type: config.TypeString}},
		Options: []config.Option{
			{Name: "env", Type: config.TypeArray},
			{Name: "tag", Type: config.TypeString},
		},
	}

	tests := []struct {
		name string
		b    Bindings
		want string
	}{
		{
			name: "fully bound",
			b: Bindings{
				Args:    map[string][]string{"file": {"k8s.yaml"}},
				Options: map[string][]string{"env": {"a", "b"}, "tag": {"v1"}},
			},
			want: "kubectl --context prod apply -f k8s.yaml --namespace a --namespace b v1 ${HOME}",
		},
		{
			name: "unbound renders empty",
			b:    Bindings{},
			want: "kubectl --context prod apply -f    ${HOME}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tpl, "/r/web", tt.b)
			if got.Command != tt.want {
				t.Errorf("Command = %q, want %q", got.Command, tt.want)
			}
			if got.Dir != "/r/web" {
				t.Errorf("Dir = %q, want /r/web", got.Dir)
			}
		})
	}
}

func TestRender_RenamedPrefix(t *testing.T) {
	tpl := config.Templated{
		Command: "docker run ${-e ENV_name} ${name}",
		Options: []config.Option{{Name: "name", Type: config.TypeArray}},
	}
	got := Render(tpl, "/r", Bindings{Options: map[string][]string{"name": {"x", "y"}}})

	// The renamed form wins; the plain form for the same option stays.
	want := "docker run -e ENV_x -e ENV_y ${name}"
	if got.Command != want {
		t.Errorf("Command = %q, want %q", got.Command, want)
	}
}

func TestRender_PlainNamesFallBackToArgsAndVars(t *testing.T) {
	tpl := config.Templated{
		Command: "echo ${who} ${greeting}",
		Vars:    []config.Var{{Name: "greeting", Value: "hello"}},
		Args:    []config.Arg{{Name: "who", Type: config.TypeArray}},
	}
	got := Render(tpl, "/r", Bindings{Args: map[string][]string{"who": {"a", "b"}}})
	if got.Command != "echo a b hello" {
		t.Errorf("Command = %q", got.Command)
	}
}

func TestRender_SinglePass(t *testing.T) {
	tpl := config.Templated{
		Command: "echo ${arg.msg}",
		Vars:    []config.Var{{Name: "secret", Value: "leaked"}},
		Args:    []config.Arg{{Name: "msg", Type: config.TypeString}},
	}
	got := Render(tpl, "/r", Bindings{Args: map[string][]string{"msg": {"${var.secret}"}}})
	if got.Command != "echo ${var.secret}" {
		t.Errorf("substituted text was re-scanned: %q", got.Command)
	}
}

func TestRender_Idempotent(t *testing.T) {
	tpl := config.Templated{
		Command: "deploy ${arg.target} ${--env env} ${var.region}",
		Vars:    []config.Var{{Name: "region", Value: "eu"}},
		Args:    []config.Arg{{Name: "target", Type: config.TypeString}},
		Options: []config.Option{{Name: "env", Type: config.TypeArray}},
	}
	b := Bindings{
		Args:    map[string][]string{"target": {"api"}},
		Options: map[string][]string{"env": {"prod"}},
	}

	once := Render(tpl, "/r", b)
	tpl.Command = once.Command
	twice := Render(tpl, "/r", b)
	if once.Command != twice.Command {
		t.Errorf("Render not idempotent: %q then %q", once.Command, twice.Command)
	}
}

func TestDir(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/r/web"},
		{"deploy", "/r/web/deploy"},
		{"../shared", "/r/shared"},
		{"/opt/tools/", "/opt/tools"},
	}
	for _, tt := range tests {
		if got := Dir(config.Templated{Path: tt.path}, "/r/web"); got != tt.want {
			t.Errorf("Dir(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
