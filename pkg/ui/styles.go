package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFA726"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	colorPath    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
)

// Styles holds the semantic styles used by the Printer.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
}

// NewStyles builds styles bound to r. A text format strips all colors.
func NewStyles(r *lipgloss.Renderer, format Format) Styles {
	if format == FormatText {
		r.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		Header:  r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Warning: r.NewStyle().Foreground(colorWarning),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Path:    r.NewStyle().Foreground(colorPath),
	}
}
