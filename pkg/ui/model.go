package ui

import (
	"fmt"
	"time"

	"ec2tui/pkg/aws"
	"ec2tui/pkg/config"
	"ec2tui/pkg/forward"
	"ec2tui/pkg/history"
	"ec2tui/pkg/logging"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options carries the command-line configuration into the model.
type Options struct {
	Profile     string
	Region      string
	PortsConfig string
	HistoryFile string
}

// Model represents the state of the UI
type Model struct {
	uiState UIState

	// Core components
	store     *history.Store
	manager   *forward.Manager
	portCfg   config.PortConfig
	profile   string
	region    string
	simulated bool
	width     int
	height    int

	// Central error and status messages
	errorMsg  string
	statusMsg string
	loading   bool

	// Instances view
	instances      []aws.InstanceSummary
	instanceTable  table.Model
	commandPreview string

	// Detail view
	detailInstance aws.InstanceSummary
	activeTable    table.Model
	historyTable   table.Model
	activeRecords  []history.Record
	historyRecords []history.Record
	focus          detailFocus

	// Add-forward form
	formInputs  []textinput.Model
	formFocus   int
	presetIndex int // -1 means custom

	// Activity log (bounded, newest last)
	activityLog []string
}

// NewModel opens the history store, probes the aws CLI, and builds the full
// UI model. A store error is fatal: nothing works without history.
func NewModel(opts Options) (*Model, error) {
	store, err := history.Open(opts.HistoryFile)
	if err != nil {
		return nil, err
	}

	profile := opts.Profile
	if profile == "" {
		profile = aws.DefaultProfile
	}
	region := opts.Region
	if region == "" {
		region = aws.DefaultRegion
	}

	m := &Model{
		uiState:     StateInstances,
		store:       store,
		portCfg:     config.LoadPortConfig(opts.PortsConfig),
		profile:     profile,
		region:      region,
		simulated:   !aws.CLIAvailable(),
		width:       80,
		height:      24,
		loading:     true,
		presetIndex: -1,
	}

	builder := func(instanceID string, remotePort, localPort int) []string {
		return aws.Instance{
			InstanceID: instanceID,
			Profile:    m.profile,
			Region:     m.region,
		}.PortForwardCommand(remotePort, localPort)
	}
	m.manager = forward.NewManager(store, builder, m.simulated, m.appendLog)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(ColorSelectedFg)).
		Background(lipgloss.Color(ColorSelectedBg)).
		Bold(false)

	m.instanceTable = table.New(
		table.WithColumns(m.instanceColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(s),
	)
	m.activeTable = table.New(
		table.WithColumns(activeColumns()),
		table.WithHeight(DetailTableHeight),
		table.WithStyles(s),
	)
	m.historyTable = table.New(
		table.WithColumns(historyColumns()),
		table.WithHeight(DetailTableHeight),
		table.WithStyles(s),
	)

	m.formInputs = make([]textinput.Model, fieldCount)
	for i := range m.formInputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 28
		m.formInputs[i] = ti
	}
	m.formInputs[fieldName].Placeholder = "forward name"
	m.formInputs[fieldRemotePort].Placeholder = "remote port"
	m.formInputs[fieldLocalPort].Placeholder = "local port"

	if m.simulated {
		m.appendLog("AWS CLI not found. Running in simulated mode.")
	}
	m.appendLog(fmt.Sprintf("Port-forward history file: %s", store.Path()))
	m.appendLog("Press Enter on an instance to open details (Add new, Start stopped, Stop active).")

	return m, nil
}

// Cleanup stops every supervised forward and closes the store. Called after
// the program loop exits.
func (m *Model) Cleanup() {
	if m.manager != nil {
		m.manager.ShutdownAll()
	}
	if m.store != nil {
		m.store.Close()
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadInstancesCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadInstancesCmd refreshes the instance directory off the UI loop.
func (m *Model) loadInstancesCmd() tea.Cmd {
	profile, region, simulated := m.profile, m.region, m.simulated
	return func() tea.Msg {
		if simulated {
			return instancesLoadedMsg{instances: aws.MockInstances(region)}
		}
		instances, err := aws.ListInstances(profile, region)
		return instancesLoadedMsg{instances: instances, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		tableHeight := m.height - InstancesViewOffset
		if tableHeight < MinTableHeight {
			tableHeight = MinTableHeight
		}
		m.instanceTable.SetHeight(tableHeight)
		m.instanceTable.SetColumns(m.instanceColumns())
		return m, nil

	case tickMsg:
		m.manager.Reconcile()
		if m.uiState == StateInstanceInfo {
			m.refreshDetailTables()
		}
		return m, tickCmd()

	case instancesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.instances = nil
			m.instanceTable.SetRows(nil)
			m.errorMsg = fmt.Sprintf("Failed to load instances: %v", msg.err)
			m.appendLog(m.errorMsg)
			return m, nil
		}
		m.instances = msg.instances
		m.instanceTable.SetRows(m.generateInstanceRows())
		mode := ""
		if m.simulated {
			mode = "simulated "
		}
		m.statusMsg = fmt.Sprintf("Loaded %d %sinstances from %s (%s).", len(m.instances), mode, m.region, m.profile)
		m.appendLog(m.statusMsg)
		m.updateCommandPreview()
		return m, nil

	case ssmSessionEndedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("SSM session for %s exited with an error: %v", msg.instanceID, msg.err)
			m.appendLog(fmt.Sprintf("SSM session failed for %s: %v", msg.instanceID, msg.err))
		} else {
			m.statusMsg = "SSM session ended."
			m.appendLog(fmt.Sprintf("SSM session ended for %s.", msg.instanceID))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.requestQuit()
		}
		switch m.uiState {
		case StateInstances:
			return m.updateInstances(msg)
		case StateInstanceInfo:
			return m.updateInstanceInfo(msg)
		case StateAddForward:
			return m.updateAddForward(msg)
		case StateQuitConfirm:
			return m.updateQuitConfirm(msg)
		}
	}
	return m, nil
}

// requestQuit either quits immediately or asks for confirmation when
// forwards are still active.
func (m *Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.manager.ActiveCount() == 0 {
		return m, tea.Quit
	}
	m.uiState = StateQuitConfirm
	return m, nil
}

// appendLog feeds one line into the bounded activity log. It doubles as the
// manager's notifier.
func (m *Model) appendLog(message string) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	m.activityLog = append(m.activityLog, line)
	if len(m.activityLog) > MaxActivityLog {
		m.activityLog = m.activityLog[len(m.activityLog)-MaxActivityLog:]
	}
	logging.LogDebug("activity: %s", message)
}
