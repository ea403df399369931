package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lectio/internal/ui/theme"
)

// ScoreBar displays a score as a horizontal bar with a percentage.
type ScoreBar struct {
	Label   string
	Percent float64 // 0..100
	Width   int
}

// NewScoreBar creates a new score bar.
func NewScoreBar(label string, percent float64, width int) ScoreBar {
	return ScoreBar{Label: label, Percent: percent, Width: width}
}

// View renders the bar.
func (p ScoreBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	barWidth := p.Width - lipgloss.Width(result) - 8
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent / 100)
	filled = max(0, min(filled, barWidth))

	color := theme.Secondary
	switch {
	case p.Percent >= 80:
		color = theme.Success
	case p.Percent < 50:
		color = theme.Error
	}

	result += lipgloss.NewStyle().Background(color).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %5.1f%%", p.Percent))
	return result
}
