package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/ctxpack/internal/services/stream"
)

// LevelStyles maps progress levels to their terminal styles.
type LevelStyles map[stream.Level]lipgloss.Style

// NewLevelStyles builds the level palette against renderer; a nil renderer uses the default one.
func NewLevelStyles(renderer *lipgloss.Renderer) LevelStyles {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	return LevelStyles{
		stream.LevelInfo:       renderer.NewStyle().Foreground(lipgloss.Color("75")),
		stream.LevelInfoHeader: renderer.NewStyle().Foreground(lipgloss.Color("62")).Bold(true),
		stream.LevelSuccess:    renderer.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		stream.LevelSkipped:    renderer.NewStyle().Foreground(lipgloss.Color("240")),
		stream.LevelProcessed:  renderer.NewStyle().Foreground(lipgloss.Color("35")),
		stream.LevelWarning:    renderer.NewStyle().Foreground(lipgloss.Color("214")),
		stream.LevelError:      renderer.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// Render styles text for level, leaving it unchanged for unknown levels.
func (styles LevelStyles) Render(level stream.Level, text string) string {
	style, found := styles[level]
	if !found {
		return text
	}
	return style.Render(text)
}
