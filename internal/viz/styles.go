package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	hudStyle    = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)

	phaseStyles = map[string]lipgloss.Style{
		"inhale":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4fc3f7")),
		"hold-in":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b39ddb")),
		"exhale":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#81c784")),
		"hold-out": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#90a4ae")),
	}

	barFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("#4fc3f7"))
	barEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// swarmShades maps canvas shade levels to depth colors, far to near.
	swarmShades = [numShades]string{"240", "245", "251", "#4fc3f7"}
)

func phaseStyle(name string) lipgloss.Style {
	if s, ok := phaseStyles[name]; ok {
		return s
	}
	return valueStyle
}

// ProgressBar renders the phase progress as a filled bar.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}
