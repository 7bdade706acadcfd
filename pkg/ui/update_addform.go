package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ec2tui/pkg/aws"
	"ec2tui/pkg/forward"
	"ec2tui/pkg/history"
)

// openAddForward resets and shows the add-forward form for the given
// instance, seeded with the configured default ports.
func (m *Model) openAddForward(inst aws.InstanceSummary) {
	m.detailInstance = inst
	m.presetIndex = -1
	m.errorMsg = ""

	m.formInputs[fieldName].SetValue("")
	m.formInputs[fieldRemotePort].SetValue(strconv.Itoa(m.portCfg.DefaultRemotePort))
	m.formInputs[fieldLocalPort].SetValue(strconv.Itoa(m.portCfg.DefaultLocalPort))

	m.formFocus = fieldName
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formInputs[fieldName].Focus()

	m.uiState = StateAddForward
}

// applyPreset fills the port fields from the next configured preset, cycling
// back to the start after the last one.
func (m *Model) applyPreset() {
	if len(m.portCfg.Presets) == 0 {
		return
	}
	m.presetIndex = (m.presetIndex + 1) % len(m.portCfg.Presets)
	preset := m.portCfg.Presets[m.presetIndex]
	m.formInputs[fieldRemotePort].SetValue(strconv.Itoa(preset.RemotePort))
	m.formInputs[fieldLocalPort].SetValue(strconv.Itoa(preset.LocalPort))
	if strings.TrimSpace(m.formInputs[fieldName].Value()) == "" {
		m.formInputs[fieldName].SetValue(preset.Key)
	}
	m.statusMsg = fmt.Sprintf("Preset: %s", preset.Label)
}

// updateAddForward handles key events for the add-forward form.
func (m *Model) updateAddForward(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.uiState = StateInstanceInfo
		m.refreshDetailTables()
		return m, nil

	case ShortcutCyclePreset:
		m.applyPreset()
		return m, nil

	case "tab", "down":
		m.setFormFocus((m.formFocus + 1) % fieldCount)
		return m, nil

	case "shift+tab", "up":
		m.setFormFocus((m.formFocus + fieldCount - 1) % fieldCount)
		return m, nil

	case "enter":
		return m.submitAddForward()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) setFormFocus(field int) {
	m.formInputs[m.formFocus].Blur()
	m.formFocus = field
	m.formInputs[m.formFocus].Focus()
}

func (m *Model) submitAddForward() (tea.Model, tea.Cmd) {
	remotePort, err := strconv.Atoi(strings.TrimSpace(m.formInputs[fieldRemotePort].Value()))
	if err != nil {
		m.errorMsg = "Remote port must be a number."
		return m, nil
	}
	localPort, err := strconv.Atoi(strings.TrimSpace(m.formInputs[fieldLocalPort].Value()))
	if err != nil {
		m.errorMsg = "Local port must be a number."
		return m, nil
	}

	name := strings.TrimSpace(m.formInputs[fieldName].Value())
	if name == "" {
		name = history.DefaultName(localPort, remotePort)
	}

	target := forward.Target{ID: m.detailInstance.InstanceID, Name: m.detailInstance.DisplayName()}
	if _, err := m.manager.Start(target, remotePort, localPort, name); err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}

	m.errorMsg = ""
	m.uiState = StateInstanceInfo
	m.refreshDetailTables()
	return m, nil
}
