package history

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a port-forward record.
type Status string

const (
	StatusActive           Status = "active"
	StatusSimulatedActive  Status = "simulated-active"
	StatusStopped          Status = "stopped"
	StatusSimulatedStopped Status = "simulated-stopped"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
	StatusInterrupted      Status = "interrupted"
)

// Active reports whether the status is one of the two non-terminal states.
func (s Status) Active() bool {
	return s == StatusActive || s == StatusSimulatedActive
}

// Terminal reports whether no further transition can occur from this status.
func (s Status) Terminal() bool {
	return !s.Active()
}

// Record is one persisted port-forward history entry. ID never changes after
// creation; everything else is mutated through Store.Update/Store.Finish.
type Record struct {
	ID           string
	ForwardName  string
	InstanceID   string
	InstanceName string
	RemotePort   int
	LocalPort    int
	StartedAt    time.Time
	EndedAt      *time.Time
	Status       Status
	Command      string
	Note         string
}

// Update is a partial patch applied to an existing record. Nil fields are
// left untouched.
type Update struct {
	ForwardName *string
	Status      *Status
	EndedAt     *time.Time
	Note        *string
}

// DefaultName is the forward name used when the user left it blank.
func DefaultName(localPort, remotePort int) string {
	return fmt.Sprintf("forward-%d-to-%d", localPort, remotePort)
}

func coerceName(name string, localPort, remotePort int) string {
	trimmed := strings.TrimSpace(name)
	if trimmed != "" {
		return trimmed
	}
	return DefaultName(localPort, remotePort)
}

// UTCNow returns the current time in UTC at second precision, matching what
// the store persists.
func UTCNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
