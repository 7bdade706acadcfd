package ui

import (
	"fmt"
	"os/exec"

	"ec2tui/pkg/aws"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// updateInstances handles key events for the instance table view.
func (m *Model) updateInstances(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case ShortcutQuit:
		return m.requestQuit()

	case ShortcutRefresh:
		m.loading = true
		m.errorMsg = ""
		m.statusMsg = "Refreshing instances..."
		return m, m.loadInstancesCmd()

	case ShortcutConnect:
		inst, ok := m.selectedInstance()
		if !ok {
			return m, nil
		}
		return m.connectToInstance(inst)

	case ShortcutCopyCommand:
		if m.commandPreview == "" {
			return m, nil
		}
		if err := clipboard.WriteAll(m.commandPreview); err != nil {
			m.errorMsg = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.statusMsg = "Session command copied to clipboard."
		return m, nil

	case ShortcutAddForward:
		inst, ok := m.selectedInstance()
		if !ok {
			return m, nil
		}
		m.openAddForward(inst)
		return m, nil

	case "enter":
		inst, ok := m.selectedInstance()
		if !ok {
			return m, nil
		}
		m.detailInstance = inst
		m.focus = focusActive
		m.activeTable.Focus()
		m.historyTable.Blur()
		m.refreshDetailTables()
		m.uiState = StateInstanceInfo
		return m, nil
	}

	var cmd tea.Cmd
	m.instanceTable, cmd = m.instanceTable.Update(msg)
	m.updateCommandPreview()
	return m, cmd
}

// connectToInstance hands the terminal to an interactive SSM session. The
// TUI resumes when the session ends and reports the outcome.
func (m *Model) connectToInstance(inst aws.InstanceSummary) (tea.Model, tea.Cmd) {
	args := aws.Instance{InstanceID: inst.InstanceID, Profile: m.profile, Region: m.region}.ShellCommand()
	m.commandPreview = m.shellCommandFor(inst.InstanceID)

	if m.simulated {
		m.statusMsg = "Simulated SSM session (AWS CLI not installed)."
		m.appendLog(fmt.Sprintf("Simulated SSM session for %s.", inst.InstanceID))
		return m, nil
	}

	m.statusMsg = fmt.Sprintf("Starting SSM session for %s (%s)...", inst.DisplayName(), inst.InstanceID)
	m.appendLog(fmt.Sprintf("Starting SSM session for %s.", inst.InstanceID))
	instanceID := inst.InstanceID
	c := exec.Command(args[0], args[1:]...)
	return m, tea.ExecProcess(c, func(err error) tea.Msg {
		return ssmSessionEndedMsg{instanceID: instanceID, err: err}
	})
}
