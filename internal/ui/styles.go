package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary  = lipgloss.Color("39")  // Blue
	ColorExplicit = lipgloss.Color("34")  // Green
	ColorDefault  = lipgloss.Color("214") // Orange
	ColorDeducted = lipgloss.Color("75")  // Light blue
	ColorIgnored  = lipgloss.Color("196") // Red
	ColorInfo     = lipgloss.Color("45")  // Cyan
	ColorMuted    = lipgloss.Color("240") // Dark gray
)

// Styles resolves colors for terminal output. When colors are disabled every
// style renders its input unchanged.
type Styles struct {
	Title    lipgloss.Style
	Field    lipgloss.Style
	Muted    lipgloss.Style
	Explicit lipgloss.Style
	Default  lipgloss.Style
	Deducted lipgloss.Style
	Ignored  lipgloss.Style
	Info     lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Fatal    lipgloss.Style

	colors bool
}

// NewStyles builds the style set. Pass false to strip all ANSI sequences,
// for piped output or NO_COLOR.
func NewStyles(colors bool) Styles {
	if !colors {
		plain := lipgloss.NewStyle()
		return Styles{
			Title: plain, Field: plain, Muted: plain,
			Explicit: plain, Default: plain, Deducted: plain, Ignored: plain,
			Info: plain, Warning: plain, Error: plain, Fatal: plain,
		}
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Field:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
		Explicit: lipgloss.NewStyle().Foreground(ColorExplicit),
		Default:  lipgloss.NewStyle().Foreground(ColorDefault),
		Deducted: lipgloss.NewStyle().Foreground(ColorDeducted),
		Ignored:  lipgloss.NewStyle().Foreground(ColorIgnored),
		Info:     lipgloss.NewStyle().Foreground(ColorInfo),
		Warning:  lipgloss.NewStyle().Foreground(ColorDefault),
		Error:    lipgloss.NewStyle().Foreground(ColorIgnored),
		Fatal:    lipgloss.NewStyle().Bold(true).Foreground(ColorIgnored),
		colors:   true,
	}
}

// Provenance returns the style matching a provenance tag. Corrected defaults
// (carrying a cause suffix) use the warning color rather than the plain
// default color.
func (s Styles) Provenance(p upstilatex.Provenance) lipgloss.Style {
	switch p.Base() {
	case upstilatex.ProvenanceExplicit:
		return s.Explicit
	case upstilatex.ProvenanceDeducted:
		return s.Deducted
	case upstilatex.ProvenanceIgnored:
		return s.Ignored
	case upstilatex.ProvenanceDefault:
		if p.Cause() != "" && p.Cause() != upstilatex.CauseUnset {
			return s.Warning
		}
		return s.Default
	}
	return s.Field
}

// Severity returns the style matching a diagnostic severity.
func (s Styles) Severity(sev upstilatex.Severity) lipgloss.Style {
	switch sev {
	case upstilatex.SeverityWarning:
		return s.Warning
	case upstilatex.SeverityError:
		return s.Error
	case upstilatex.SeverityFatal:
		return s.Fatal
	}
	return s.Info
}

// Symbols for visual feedback.
const (
	SymbolCheck  = "✓"
	SymbolCross  = "✗"
	SymbolBullet = "•"
)
