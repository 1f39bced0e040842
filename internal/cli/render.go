package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/models"
)

var (
	agentNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(100)

	verdictStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(1, 2).
			Width(100)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// renderMessage formats one transcript entry for the terminal.
func renderMessage(m models.AgentMessage) string {
	header := agentNameStyle.Render(m.Name)
	body := header + "\n" + m.Content
	if m.AudioPath != "" {
		body += "\n" + noteStyle.Render("🔊 narration: "+m.AudioPath)
	}
	return messageStyle.Render(body)
}

// renderVerdict formats the final verdict block.
func renderVerdict(state *models.WorkflowState) string {
	var b strings.Builder
	b.WriteString(state.FinalVerdict)
	if len(state.Degraded) > 0 {
		names := make([]string, 0, len(state.Degraded))
		for _, agent := range state.Degraded {
			names = append(names, consts.DisplayName(agent))
		}
		b.WriteString("\n\n")
		b.WriteString(noteStyle.Render(
			fmt.Sprintf("Partial data: %s ran into errors.", strings.Join(names, ", "))))
	}
	return verdictStyle.Render(b.String())
}
