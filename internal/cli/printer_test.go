package cli

import (
	"bytes"
	"testing"

	catppuccin "github.com/catppuccin/go"
)

func TestPrinter_Command(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, "mocha", true)

	p.Command("apps/web", "vite", []string{"--port", "3000"})
	p.Command(".", "make", nil)

	want := "apps/web: vite --port 3000\n.: make\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want empty", errOut.String())
	}
}

func TestPrinter_Error(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, "latte", true)

	p.Errorf("No projects with command %s found", "lint")

	want := "\nNo projects with command lint found\n\n"
	if errOut.String() != want {
		t.Errorf("stderr = %q, want %q", errOut.String(), want)
	}
}

func TestFlavorFromName(t *testing.T) {
	tests := []struct {
		name string
		want catppuccin.Flavor
	}{
		{"latte", catppuccin.Latte},
		{"frappe", catppuccin.Frappe},
		{"macchiato", catppuccin.Macchiato},
		{"mocha", catppuccin.Mocha},
		{"unknown", catppuccin.Mocha},
	}
	for _, tt := range tests {
		if got := flavorFromName(tt.name); got.Base().Hex != tt.want.Base().Hex {
			t.Errorf("flavorFromName(%q) base = %s, want %s", tt.name, got.Base().Hex, tt.want.Base().Hex)
		}
	}
}

func TestStripANSI(t *testing.T) {
	if got := StripANSI("\x1b[1;31mfailed\x1b[0m"); got != "failed" {
		t.Errorf("StripANSI() = %q, want %q", got, "failed")
	}
}
