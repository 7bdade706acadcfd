package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current model state
func (m *Model) View() string {
	switch m.uiState {
	case StateInstances:
		return m.viewInstances()
	case StateInstanceInfo:
		return m.viewInstanceInfo()
	case StateAddForward:
		return m.viewAddForward()
	case StateQuitConfirm:
		return m.viewQuitConfirm()
	}
	return "Unknown state"
}

// viewInstances renders the instance table view
func (m *Model) viewInstances() string {
	titleText := fmt.Sprintf("EC2 Instances - %s (%s)", m.region, m.profile)
	if m.simulated {
		titleText += " [SIMULATED]"
	}
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTitle)).Bold(true).Render(titleText)

	help := "Enter: Details | C: Connect | P: Port Forward | Y: Copy Command | R: Refresh | Q: Quit"
	if m.width < 80 {
		help = "Enter:Details | C:Connect | P:Forward | Y:Copy | R:Refresh | Q:Quit"
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp))
	helpText := helpStyle.Render(help)

	tableView := lipgloss.PlaceHorizontal(m.width, lipgloss.Left, m.instanceTable.View())

	// Command preview box for the highlighted instance
	var previewView string
	if m.commandPreview != "" {
		previewStyle := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 1)
		previewView = previewStyle.Render("Session: " + truncate(m.commandPreview, m.width-12))
	}

	// Format top area: title and potentially help text (if room)
	var top string
	if m.width >= 80 {
		spacing := m.width - lipgloss.Width(title) - lipgloss.Width(helpText)
		if spacing > 0 {
			top = lipgloss.JoinHorizontal(lipgloss.Left, title, strings.Repeat(" ", spacing), helpText)
		} else {
			top = title
		}
	} else {
		top = title
	}

	var bottom string
	if m.width < 80 {
		bottom = helpStyle.Render(help)
	}

	messageText := m.renderMessage()
	logView := m.renderActivityLog()

	parts := []string{top, "", tableView}
	if previewView != "" {
		parts = append(parts, previewView)
	}
	if messageText != "" {
		parts = append(parts, messageText)
	}
	if logView != "" {
		parts = append(parts, logView)
	}
	if bottom != "" {
		parts = append(parts, bottom)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderMessage formats the central error or status line.
func (m *Model) renderMessage() string {
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		return errorStyle.Render(fmt.Sprintf("ERROR: %s", m.errorMsg))
	}
	if m.loading {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn)).Render("Loading...")
	}
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorStatus))
		return statusStyle.Render(m.statusMsg)
	}
	return ""
}

// renderActivityLog shows the newest activity lines at the bottom of the
// main view.
func (m *Model) renderActivityLog() string {
	if len(m.activityLog) == 0 {
		return ""
	}
	start := len(m.activityLog) - ActivityLogLines
	if start < 0 {
		start = 0
	}
	lines := m.activityLog[start:]
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim))
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, dimStyle.Render(truncate(line, m.width)))
	}
	return strings.Join(rendered, "\n")
}
