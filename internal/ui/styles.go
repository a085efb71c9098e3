// Package ui renders query results and status messages for the CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple #A78BFA): highlights, table headers, store names
// - Muted (gray): secondary info, row counts, hints

var (
	// Accent style for store names, headers, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)
)

// ConfigureAccent overrides the accent color, typically from the
// [ui] accent config key. Empty input is a no-op.
func ConfigureAccent(color string) {
	if color == "" {
		return
	}
	c := lipgloss.Color(color)
	Accent = Accent.Foreground(c)
	AccentBold = AccentBold.Foreground(c)
}

// Styled reports whether stdout is a terminal that should receive
// styled output. Piped output stays plain.
func Styled() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
