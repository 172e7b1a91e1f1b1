// pattern: Functional Core
package cli

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the output styles for one writer.
type Styles struct {
	flavor   catppuccin.Flavor
	renderer *lipgloss.Renderer
}

func NewStyles(themeName string, renderer *lipgloss.Renderer) *Styles {
	return &Styles{flavor: flavorFromName(themeName), renderer: renderer}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	case "mocha":
		return catppuccin.Mocha
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) PathStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Sky().Hex))
}

func (s *Styles) CommandStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Green().Hex))
}

func (s *Styles) ErrorStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Red().Hex)).
		Bold(true)
}
