package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ec2tui/pkg/forward"
)

// updateInstanceInfo handles key events for the per-instance detail view.
func (m *Model) updateInstanceInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case ShortcutQuit, "esc":
		m.uiState = StateInstances
		return m, nil

	case "tab":
		if m.focus == focusActive {
			m.focus = focusHistory
			m.activeTable.Blur()
			m.historyTable.Focus()
		} else {
			m.focus = focusActive
			m.historyTable.Blur()
			m.activeTable.Focus()
		}
		return m, nil

	case ShortcutAddInDetail:
		m.openAddForward(m.detailInstance)
		return m, nil

	case ShortcutStopForward:
		if m.focus != focusActive {
			return m, nil
		}
		idx := m.activeTable.Cursor()
		if idx < 0 || idx >= len(m.activeRecords) {
			return m, nil
		}
		m.manager.Stop(m.activeRecords[idx].ID)
		m.refreshDetailTables()
		return m, nil

	case ShortcutStartAgain:
		if m.focus != focusHistory {
			return m, nil
		}
		idx := m.historyTable.Cursor()
		if idx < 0 || idx >= len(m.historyRecords) {
			return m, nil
		}
		rec := m.historyRecords[idx]
		if rec.Status.Active() {
			m.statusMsg = "Forward is already running."
			return m, nil
		}
		target := forward.Target{ID: m.detailInstance.InstanceID, Name: m.detailInstance.DisplayName()}
		if _, err := m.manager.Start(target, rec.RemotePort, rec.LocalPort, rec.ForwardName); err != nil {
			m.errorMsg = err.Error()
		} else {
			m.errorMsg = ""
		}
		m.refreshDetailTables()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusActive {
		m.activeTable, cmd = m.activeTable.Update(msg)
	} else {
		m.historyTable, cmd = m.historyTable.Update(msg)
	}
	return m, cmd
}

// updateQuitConfirm handles the confirmation prompt shown when quitting with
// active forwards.
func (m *Model) updateQuitConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m, tea.Quit
	case "n", "esc", ShortcutQuit:
		m.uiState = StateInstances
		return m, nil
	}
	return m, nil
}
