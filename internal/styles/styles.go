// Package styles renders operator-facing text with terminal colors when the output supports them.
package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	errorColorConstant  = "1"
	infoColorConstant   = "4"
	dimmedColorConstant = "8"
)

type fileDescriptorWriter interface {
	Fd() uintptr
}

// ThemeOption customizes a Theme.
type ThemeOption func(*themeSettings)

type themeSettings struct {
	colorProfile  termenv.Profile
	forceProfile  bool
	forceTerminal bool
}

// WithColorProfile forces a color profile regardless of terminal detection.
func WithColorProfile(profile termenv.Profile) ThemeOption {
	return func(settings *themeSettings) {
		settings.colorProfile = profile
		settings.forceProfile = true
		settings.forceTerminal = true
	}
}

// Theme renders text in the shell's palette. A plain theme returns text unchanged.
type Theme struct {
	plain  bool
	Error  lipgloss.Style
	Info   lipgloss.Style
	Dimmed lipgloss.Style
}

// NewTheme builds a theme for output. The theme is plain when requested or when output is not a terminal.
func NewTheme(output io.Writer, plain bool, options ...ThemeOption) *Theme {
	settings := themeSettings{}
	for _, option := range options {
		option(&settings)
	}

	if !settings.forceTerminal && !IsTerminal(output) {
		plain = true
	}

	renderer := lipgloss.NewRenderer(output)
	switch {
	case plain:
		renderer.SetColorProfile(termenv.Ascii)
	case settings.forceProfile:
		renderer.SetColorProfile(settings.colorProfile)
	}

	return &Theme{
		plain:  plain,
		Error:  renderer.NewStyle().Foreground(lipgloss.Color(errorColorConstant)),
		Info:   renderer.NewStyle().Foreground(lipgloss.Color(infoColorConstant)).Bold(true),
		Dimmed: renderer.NewStyle().Foreground(lipgloss.Color(dimmedColorConstant)),
	}
}

// PlainTheme returns a theme that never emits escape sequences.
func PlainTheme() *Theme {
	return NewTheme(io.Discard, true)
}

// IsPlain reports whether rendering is disabled.
func (theme *Theme) IsPlain() bool {
	return theme == nil || theme.plain
}

// Render applies style to text unless the theme is plain.
func (theme *Theme) Render(style lipgloss.Style, text string) string {
	if theme.IsPlain() {
		return text
	}
	return style.Render(text)
}

// IsTerminal reports whether writer is backed by a terminal.
func IsTerminal(writer io.Writer) bool {
	descriptorWriter, ok := writer.(fileDescriptorWriter)
	if !ok {
		return false
	}
	fileDescriptor := descriptorWriter.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
