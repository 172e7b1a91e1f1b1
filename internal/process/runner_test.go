package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"dia/internal/config"
	"dia/internal/logging"
	"dia/internal/tmux"
)

func testRunner(t *testing.T, panes *tmux.Client) (*Runner, *bytes.Buffer) {
	t.Helper()
	lm := logging.NewTestLogManager(100)
	t.Cleanup(func() { _ = lm.Close() })

	var out bytes.Buffer
	r := NewRunner("sh", panes, lm.For("process"))
	r.Stdin = strings.NewReader("")
	r.Stdout = &out
	r.Stderr = &out
	return r, &out
}

func TestRunner_RunsInDir(t *testing.T) {
	dir := t.TempDir()
	r, out := testRunner(t, nil)

	code, err := r.Run(context.Background(), Job{Spec: config.Literal("pwd"), Dir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestRunner_AppendsQuotedArgs(t *testing.T) {
	r, out := testRunner(t, nil)

	_, err := r.Run(context.Background(), Job{
		Spec: config.Literal("printf '%s|'"),
		Dir:  t.TempDir(),
		Args: []string{"a b", "$HOME", "c"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "a b|$HOME|c|" {
		t.Errorf("output = %q, want %q", got, "a b|$HOME|c|")
	}
}

func TestRunner_PropagatesExitCode(t *testing.T) {
	r, _ := testRunner(t, nil)

	code, err := r.Run(context.Background(), Job{Spec: config.Literal("exit 42"), Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 42 {
		t.Errorf("exit code = %d, want 42", code)
	}
}

func TestRunner_ParallelRunsAllItems(t *testing.T) {
	dir := t.TempDir()
	r, _ := testRunner(t, nil)

	spec := config.Parallel{
		Items: []string{"touch a", "false", "touch b"},
		After: "touch after",
	}
	if _, err := r.Run(context.Background(), Job{Spec: spec, Dir: dir}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, name := range []string{"a", "b", "after"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func readPids(path string) []int {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var pids []int
	for _, line := range strings.Fields(string(data)) {
		if pid, err := strconv.Atoi(line); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids
}

func TestRunner_CancelStopsBackgroundedItems(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "pids")
	r, _ := testRunner(t, nil)

	item := "sh -c 'echo $$ >> pids; exec sleep 30'"
	spec := config.Parallel{Items: []string{item, item}}
	if !Grouped(Job{Spec: spec}) {
		t.Fatal("backgrounded group must run in its own process group")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		deadline := time.Now().Add(5 * time.Second)
		for len(readPids(pidFile)) < 2 && time.Now().Before(deadline) {
			time.Sleep(20 * time.Millisecond)
		}
		cancel()
	}()

	code, err := r.Run(ctx, Job{Spec: spec, Dir: dir})
	<-watched
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code == 0 {
		t.Error("cancelled run reported success")
	}

	members := readPids(pidFile)
	if len(members) != 2 {
		t.Fatalf("recorded %d member pids, want 2", len(members))
	}
	waitDead(t, members)
}

func TestGrouped(t *testing.T) {
	tests := []struct {
		name string
		spec config.CommandSpec
		want bool
	}{
		{"literal", config.Literal("make"), false},
		{"sequence", config.Sequence{"a", "b"}, false},
		{"parallel", config.Parallel{Items: []string{"a"}}, true},
		{"parallel in sequence", config.Parallel{Items: []string{"a"}, Sequence: true}, true},
		{"panes", config.Parallel{Items: []string{"a"}, Panes: true}, false},
	}
	for _, tt := range tests {
		if got := Grouped(Job{Spec: tt.spec}); got != tt.want {
			t.Errorf("%s: Grouped() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRunner_BeforeGatesGroup(t *testing.T) {
	dir := t.TempDir()
	r, _ := testRunner(t, nil)

	spec := config.Parallel{Items: []string{"touch a"}, Before: "false"}
	code, err := r.Run(context.Background(), Job{Spec: spec, Dir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code == 0 {
		t.Error("failed before step should fail the run")
	}
	if _, err := os.Stat(filepath.Join(dir, "a")); err == nil {
		t.Error("group ran although before failed")
	}
}

func TestRunner_PaneModeWithoutTools(t *testing.T) {
	dir := t.TempDir()
	panes := tmux.NewClientWithLookup(
		func(string) (string, error) { return "", os.ErrNotExist },
		func(string) string { return "" },
		nil,
	)
	r, _ := testRunner(t, panes)

	spec := config.Parallel{Items: []string{"touch a"}, Before: "touch before", Panes: true}
	code, err := r.Run(context.Background(), Job{Spec: spec, Dir: dir})

	var missing *tmux.MissingToolError
	if !errors.As(err, &missing) {
		t.Fatalf("Run() error = %v, want MissingToolError", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "before")); err == nil {
		t.Error("something was spawned before the tool check")
	}
}

func TestRunner_PaneScript(t *testing.T) {
	panes := tmux.NewClientWithLookup(
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		func(string) string { return "" },
		nil,
	)
	r, _ := testRunner(t, panes)

	script, err := r.Script(Job{Spec: config.Parallel{
		Items:       []string{"dia web dev", "dia api dev"},
		Panes:       true,
		CloseOnDone: true,
	}})
	if err != nil {
		t.Fatalf("Script() error = %v", err)
	}
	want := "xpanes -s -d -e 'dia web dev' 'dia api dev'"
	if script != want {
		t.Errorf("Script() = %q, want %q", script, want)
	}
}
