package ui

import (
	"fmt"
	"strings"
	"time"

	"ec2tui/pkg/aws"
	"ec2tui/pkg/history"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"
)

func (m *Model) instanceColumns() []table.Column {
	nameWidth := m.width - 96
	if nameWidth < 18 {
		nameWidth = 18
	}
	return []table.Column{
		{Title: ColName, Width: nameWidth},
		{Title: ColInstance, Width: 20},
		{Title: ColState, Width: 10},
		{Title: ColType, Width: 12},
		{Title: ColPrivateIP, Width: 15},
		{Title: ColPublicIP, Width: 15},
		{Title: ColAZ, Width: 12},
	}
}

func activeColumns() []table.Column {
	return []table.Column{
		{Title: ColForward, Width: 24},
		{Title: ColLocal, Width: 6},
		{Title: ColRemote, Width: 7},
		{Title: ColStatus, Width: 17},
		{Title: ColStarted, Width: 14},
	}
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: ColForward, Width: 24},
		{Title: ColLocal, Width: 6},
		{Title: ColRemote, Width: 7},
		{Title: ColStatus, Width: 17},
		{Title: ColStarted, Width: 14},
		{Title: ColEnded, Width: 14},
	}
}

func (m *Model) generateInstanceRows() []table.Row {
	rows := make([]table.Row, 0, len(m.instances))
	for _, inst := range m.instances {
		rows = append(rows, table.Row{
			inst.DisplayName(),
			inst.InstanceID,
			inst.State,
			inst.InstanceType,
			orDash(inst.PrivateIP),
			orDash(inst.PublicIP),
			inst.AvailabilityZone,
		})
	}
	return rows
}

func activeRows(records []history.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			truncate(rec.ForwardName, 24),
			fmt.Sprintf("%d", rec.LocalPort),
			fmt.Sprintf("%d", rec.RemotePort),
			string(rec.Status),
			relativeTime(rec.StartedAt),
		})
	}
	return rows
}

func historyRows(records []history.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		ended := "-"
		if rec.EndedAt != nil {
			ended = relativeTime(*rec.EndedAt)
		}
		rows = append(rows, table.Row{
			truncate(rec.ForwardName, 24),
			fmt.Sprintf("%d", rec.LocalPort),
			fmt.Sprintf("%d", rec.RemotePort),
			string(rec.Status),
			relativeTime(rec.StartedAt),
			ended,
		})
	}
	return rows
}

// refreshDetailTables reloads the active and history tables for the instance
// currently open in the detail view, preserving cursor positions.
func (m *Model) refreshDetailTables() {
	activeCursor := m.activeTable.Cursor()
	historyCursor := m.historyTable.Cursor()

	m.activeRecords = m.manager.ActiveForInstance(m.detailInstance.InstanceID)
	m.historyRecords = m.manager.HistoryForInstance(m.detailInstance.InstanceID)

	m.activeTable.SetRows(activeRows(m.activeRecords))
	m.historyTable.SetRows(historyRows(m.historyRecords))

	if activeCursor < len(m.activeRecords) {
		m.activeTable.SetCursor(activeCursor)
	}
	if historyCursor < len(m.historyRecords) {
		m.historyTable.SetCursor(historyCursor)
	}
}

// updateCommandPreview rebuilds the shell command shown under the instance
// table for the highlighted row.
func (m *Model) updateCommandPreview() {
	inst, ok := m.selectedInstance()
	if !ok {
		m.commandPreview = ""
		return
	}
	m.commandPreview = m.shellCommandFor(inst.InstanceID)
}

func (m *Model) selectedInstance() (aws.InstanceSummary, bool) {
	idx := m.instanceTable.Cursor()
	if idx < 0 || idx >= len(m.instances) {
		return aws.InstanceSummary{}, false
	}
	return m.instances[idx], true
}

func (m *Model) shellCommandFor(instanceID string) string {
	inst := aws.Instance{InstanceID: instanceID, Profile: m.profile, Region: m.region}
	return strings.Join(inst.ShellCommand(), " ")
}

func relativeTime(t time.Time) string {
	return humanize.Time(t)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
