package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// viewAddForward renders the add-forward form.
func (m *Model) viewAddForward() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTitle)).Bold(true).
		Render(fmt.Sprintf("New Port Forward - %s", m.detailInstance.DisplayName()))

	labelStyle := lipgloss.NewStyle().Width(14)
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Left, labelStyle.Render("Name:"), m.formInputs[fieldName].View()),
		lipgloss.JoinHorizontal(lipgloss.Left, labelStyle.Render("Remote Port:"), m.formInputs[fieldRemotePort].View()),
		lipgloss.JoinHorizontal(lipgloss.Left, labelStyle.Render("Local Port:"), m.formInputs[fieldLocalPort].View()),
	}

	var presetText string
	if m.presetIndex >= 0 && m.presetIndex < len(m.portCfg.Presets) {
		presetText = fmt.Sprintf("Preset: %s", m.portCfg.Presets[m.presetIndex].Label)
	} else {
		presetText = "Ctrl+P cycles port presets"
	}
	presetView := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim)).Render(presetText)

	help := "Enter: Start | Tab: Next Field | Ctrl+P: Preset | Esc: Cancel"
	helpText := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelp)).Render(help)

	parts := []string{title, ""}
	parts = append(parts, rows...)
	parts = append(parts, "", presetView)
	if messageText := m.renderMessage(); messageText != "" {
		parts = append(parts, messageText)
	}
	parts = append(parts, helpText)

	form := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
