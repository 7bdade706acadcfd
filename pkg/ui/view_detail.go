package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// viewInstanceInfo renders the per-instance detail view: instance facts on
// top, then the active forwards table and the history table.
func (m *Model) viewInstanceInfo() string {
	inst := m.detailInstance
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTitle)).Bold(true).
		Render(fmt.Sprintf("Instance: %s (%s)", inst.DisplayName(), inst.InstanceID))

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim))
	facts := dimStyle.Render(fmt.Sprintf("State: %s | Type: %s | AZ: %s | Private: %s | Public: %s",
		inst.State, inst.InstanceType, inst.AvailabilityZone, orDash(inst.PrivateIP), orDash(inst.PublicIP)))

	sectionStyle := lipgloss.NewStyle().Bold(true)
	focusedStyle := sectionStyle.Foreground(lipgloss.Color(ColorTitle))

	activeHeader := sectionStyle.Render(fmt.Sprintf("Active Forwards (%d)", len(m.activeRecords)))
	historyHeader := sectionStyle.Render(fmt.Sprintf("History (%d)", len(m.historyRecords)))
	if m.focus == focusActive {
		activeHeader = focusedStyle.Render(fmt.Sprintf("Active Forwards (%d)", len(m.activeRecords)))
	} else {
		historyHeader = focusedStyle.Render(fmt.Sprintf("History (%d)", len(m.historyRecords)))
	}

	help := "Tab: Switch Table | A: Add Forward | X: Stop | S: Start Again | Esc: Back"
	helpText := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp)).Render(help)

	parts := []string{
		title,
		facts,
		"",
		activeHeader,
		m.activeTable.View(),
		"",
		historyHeader,
		m.historyTable.View(),
	}
	if messageText := m.renderMessage(); messageText != "" {
		parts = append(parts, messageText)
	}
	parts = append(parts, helpText)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// viewQuitConfirm renders the quit confirmation listing still-active
// forwards.
func (m *Model) viewQuitConfirm() string {
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn)).Bold(true)
	active := m.manager.ActiveAll()

	lines := []string{
		warnStyle.Render(fmt.Sprintf("%d port forward(s) still active:", len(active))),
		"",
	}
	for _, rec := range active {
		lines = append(lines, fmt.Sprintf("  %s (%s) %d -> %d",
			rec.ForwardName, rec.InstanceID, rec.LocalPort, rec.RemotePort))
	}
	lines = append(lines, "",
		"Quitting stops all of them. Quit? (y/n)")

	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorWarn)).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
