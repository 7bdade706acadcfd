package ui

import (
	"time"

	"ec2tui/pkg/aws"
)

// UIState represents the different views/states of the UI
type UIState int

const (
	StateInstances    UIState = iota // Instance table view
	StateInstanceInfo                // Per-instance detail: active forwards + history
	StateAddForward                  // Add-forward form
	StateQuitConfirm                 // Quit confirmation when forwards are active
)

// detailFocus selects which table in the detail view receives key events.
type detailFocus int

const (
	focusActive detailFocus = iota
	focusHistory
)

// Form field indexes in the add-forward form.
const (
	fieldName = iota
	fieldRemotePort
	fieldLocalPort
	fieldCount
)

// instancesLoadedMsg delivers the result of an async instance refresh.
type instancesLoadedMsg struct {
	instances []aws.InstanceSummary
	err       error
}

// ssmSessionEndedMsg arrives when an interactive SSM session handed the
// terminal back to the TUI.
type ssmSessionEndedMsg struct {
	instanceID string
	err        error
}

// tickMsg drives the reconcile pass and periodic table refreshes.
type tickMsg time.Time
