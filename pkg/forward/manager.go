package forward

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"ec2tui/pkg/history"
	"ec2tui/pkg/logging"
)

// ErrInvalidPort is returned by Start for port values outside 1-65535.
// Callers are expected to validate ports before reaching the manager; this
// is the backstop that keeps a bad value from ever spawning anything.
var ErrInvalidPort = errors.New("port must be between 1 and 65535")

// Target identifies a remote compute node. The manager treats both fields
// as opaque strings.
type Target struct {
	ID   string
	Name string
}

// CommandBuilder returns the external command used to open the tunnel for
// one target and port pair. The manager records it verbatim and never
// interprets its contents.
type CommandBuilder func(instanceID string, remotePort, localPort int) []string

// Notifier receives informational one-liners for the activity log. Delivery
// is fire-and-forget; the manager works identically with a nil Notifier.
type Notifier func(message string)

// runtimeEntry is the in-memory supervision handle for one active forward.
// It exists only while this process is alive and is never persisted.
type runtimeEntry struct {
	recordID   string
	instanceID string
	proc       *process // nil for simulated entries
	simulated  bool
	stopping   bool
}

// Manager owns the runtime registry and is the only component that both
// touches the history store and spawns or signals child processes.
type Manager struct {
	store     *history.Store
	buildCmd  CommandBuilder
	simulated bool
	notify    Notifier

	mu     sync.Mutex
	active map[string]*runtimeEntry
}

// NewManager wires a manager to its history store and command builder.
// simulated should carry the capability probe's startup answer: when true,
// Start tracks forwards without spawning anything.
func NewManager(store *history.Store, buildCmd CommandBuilder, simulated bool, notify Notifier) *Manager {
	return &Manager{
		store:     store,
		buildCmd:  buildCmd,
		simulated: simulated,
		notify:    notify,
		active:    make(map[string]*runtimeEntry),
	}
}

// Simulated reports whether the manager runs in simulated mode.
func (m *Manager) Simulated() bool {
	return m.simulated
}

func (m *Manager) notifyf(format string, args ...interface{}) {
	if m.notify != nil {
		m.notify(fmt.Sprintf(format, args...))
	}
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// Start launches a new forward against target. Every call yields at most one
// new history record; start never mutates an existing one. The command line
// is recorded even when the spawn fails.
func (m *Manager) Start(target Target, remotePort, localPort int, forwardName string) (history.Record, error) {
	if !validPort(remotePort) || !validPort(localPort) {
		return history.Record{}, fmt.Errorf("%w: remote=%d local=%d", ErrInvalidPort, remotePort, localPort)
	}

	args := m.buildCmd(target.ID, remotePort, localPort)
	commandText := shellJoin(args)

	if m.simulated {
		rec, err := m.store.Create(history.CreateParams{
			ForwardName:  forwardName,
			InstanceID:   target.ID,
			InstanceName: target.Name,
			RemotePort:   remotePort,
			LocalPort:    localPort,
			Status:       history.StatusSimulatedActive,
			Command:      commandText,
			Note:         "AWS CLI unavailable; simulated entry.",
		})
		if err != nil {
			return history.Record{}, err
		}
		m.register(&runtimeEntry{recordID: rec.ID, instanceID: rec.InstanceID, simulated: true})
		m.notifyf("Simulated port forward '%s' started (%d -> %s:%d).",
			rec.ForwardName, localPort, target.ID, remotePort)
		return rec, nil
	}

	proc, err := startProcessFn(args)
	if err != nil {
		logging.LogError("Failed to start port forwarding process: %v", err)
		rec, createErr := m.store.Create(history.CreateParams{
			ForwardName:  forwardName,
			InstanceID:   target.ID,
			InstanceName: target.Name,
			RemotePort:   remotePort,
			LocalPort:    localPort,
			Status:       history.StatusFailed,
			Command:      commandText,
			Note:         fmt.Sprintf("Failed to start process: %v", err),
		})
		if createErr != nil {
			return history.Record{}, createErr
		}
		now := history.UTCNow()
		if _, applyErr := m.store.Apply(rec.ID, history.Update{EndedAt: &now}); applyErr != nil {
			logging.LogError("Failed to close out spawn-failure record %s: %v", rec.ID, applyErr)
		}
		rec.EndedAt = &now
		m.notifyf("Failed to start port forwarding process: %v", err)
		return rec, fmt.Errorf("failed to spawn forward command: %w", err)
	}

	rec, err := m.store.Create(history.CreateParams{
		ForwardName:  forwardName,
		InstanceID:   target.ID,
		InstanceName: target.Name,
		RemotePort:   remotePort,
		LocalPort:    localPort,
		Status:       history.StatusActive,
		Command:      commandText,
	})
	if err != nil {
		// The record is the source of truth; without it we must not leave an
		// orphaned child running.
		proc.terminate()
		return history.Record{}, err
	}

	m.register(&runtimeEntry{recordID: rec.ID, instanceID: rec.InstanceID, proc: proc})
	logging.LogDebug("Started forward %s (pid %d): %s", rec.ID, proc.pid(), commandText)
	m.notifyf("Port forward '%s' active (%d -> %s:%d).",
		rec.ForwardName, localPort, target.ID, remotePort)
	return rec, nil
}

func (m *Manager) register(entry *runtimeEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[entry.recordID] = entry
}

// claim atomically marks an entry as stopping and removes it from the
// registry, so the reconcile pass can no longer race with the caller's
// termination sequence.
func (m *Manager) claim(recordID string) (*runtimeEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.active[recordID]
	if !ok {
		return nil, false
	}
	entry.stopping = true
	delete(m.active, recordID)
	return entry, true
}

// Stop terminates the forward for recordID. It is idempotent: when no live
// registry entry exists (unknown ID, already stopped, or reaped by the
// reconcile pass) it returns false and changes nothing. Termination failures
// are downgraded to a note, never propagated.
func (m *Manager) Stop(recordID string) bool {
	entry, ok := m.claim(recordID)
	if !ok {
		logging.LogDebug("Requested stop for unknown or inactive forward: %s", recordID)
		return false
	}

	if entry.simulated || entry.proc == nil {
		status := history.StatusStopped
		if entry.simulated {
			status = history.StatusSimulatedStopped
		}
		if _, err := m.store.Finish(recordID, status, "Stopped by user."); err != nil {
			logging.LogError("Failed to record stop for %s: %v", recordID, err)
		}
		m.notifyStopped(recordID)
		return true
	}

	// Escalation can block for the sum of both grace periods; it runs outside
	// the registry lock so the reconcile pass keeps polling other entries.
	result := entry.proc.terminate()
	status := history.StatusStopped
	if !stoppedCleanly(result) {
		status = history.StatusFailed
	}
	note := fmt.Sprintf("Stopped by user (%s).", result.describe())
	if _, err := m.store.Finish(recordID, status, note); err != nil {
		logging.LogError("Failed to record stop for %s: %v", recordID, err)
	}
	m.notifyStopped(recordID)
	return true
}

func (m *Manager) notifyStopped(recordID string) {
	rec, ok := m.store.Get(recordID)
	if !ok {
		return
	}
	m.notifyf("Stopped port forward '%s' (%d -> %s:%d).",
		rec.ForwardName, rec.LocalPort, rec.InstanceID, rec.RemotePort)
}

// Reconcile makes one non-blocking pass over the registry, reaping real
// processes that exited on their own (or crashed) and recording the outcome.
// Simulated entries never self-terminate and are skipped. It is safe to call
// on any cadence; the store's terminal guard makes late passes no-ops.
func (m *Manager) Reconcile() {
	m.mu.Lock()
	var finished []*runtimeEntry
	for id, entry := range m.active {
		if entry.simulated || entry.proc == nil {
			continue
		}
		if !entry.proc.exited() {
			continue
		}
		delete(m.active, id)
		finished = append(finished, entry)
	}
	m.mu.Unlock()

	for _, entry := range finished {
		result := entry.proc.exitStatus()
		var status history.Status
		switch {
		case entry.stopping:
			status = history.StatusStopped
		case result.observed && !result.signaled && result.code == 0:
			status = history.StatusCompleted
		default:
			status = history.StatusFailed
		}
		note := fmt.Sprintf("Process ended (%s).", result.describe())
		if _, err := m.store.Finish(entry.recordID, status, note); err != nil {
			logging.LogError("Failed to record exit for %s: %v", entry.recordID, err)
		}
		if rec, ok := m.store.Get(entry.recordID); ok {
			m.notifyf("Port forward '%s' ended (%d -> %s:%d, status=%s).",
				rec.ForwardName, rec.LocalPort, rec.InstanceID, rec.RemotePort, rec.Status)
		}
	}
}

// ShutdownAll stops every registered forward. Each stop is independent and
// best-effort; one stubborn process never blocks the rest from being tried.
func (m *Manager) ShutdownAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Stop(id)
	}
}

// ActiveCount returns the number of forwards currently supervised.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *Manager) activeRecordIDs(instanceID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.active))
	for id, entry := range m.active {
		if instanceID != "" && entry.instanceID != instanceID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) recordsForIDs(ids []string) []history.Record {
	records := make([]history.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := m.store.Get(id); ok {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records
}

// ActiveForInstance lists the forwards for one instance still supervised by
// this process, most recent first.
func (m *Manager) ActiveForInstance(instanceID string) []history.Record {
	return m.recordsForIDs(m.activeRecordIDs(instanceID))
}

// ActiveAll lists every forward still supervised by this process.
func (m *Manager) ActiveAll() []history.Record {
	return m.recordsForIDs(m.activeRecordIDs(""))
}

// HistoryForInstance lists the full stored history for one instance.
func (m *Manager) HistoryForInstance(instanceID string) []history.Record {
	return m.store.ListForInstance(instanceID)
}
