package history

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAppliesDefaultName(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Create(CreateParams{
		InstanceID: "i-0abc",
		RemotePort: 80,
		LocalPort:  8080,
		Status:     StatusActive,
		Command:    "aws ssm start-session --target i-0abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "forward-8080-to-80", rec.ForwardName)
	assert.NotEmpty(t, rec.ID)
	assert.NotContains(t, rec.ID, "-")
	assert.Nil(t, rec.EndedAt)

	// Round-trip through the database
	got, ok := store.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec.ForwardName, got.ForwardName)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, rec.StartedAt, got.StartedAt)
}

func TestCreateKeepsExplicitName(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Create(CreateParams{
		ForwardName: "  rabbitmq-ui  ",
		InstanceID:  "i-0abc",
		RemotePort:  15672,
		LocalPort:   15672,
		Status:      StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "rabbitmq-ui", rec.ForwardName)
}

func TestApplyPartialUpdate(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Create(CreateParams{
		InstanceID: "i-0abc",
		RemotePort: 5432,
		LocalPort:  5432,
		Status:     StatusActive,
	})
	require.NoError(t, err)

	newName := "postgres"
	ok, err := store.Apply(rec.ID, Update{ForwardName: &newName})
	require.NoError(t, err)
	assert.True(t, ok)

	got, found := store.Get(rec.ID)
	require.True(t, found)
	assert.Equal(t, "postgres", got.ForwardName)
	// Untouched fields survive the patch
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, rec.Command, got.Command)
	assert.Nil(t, got.EndedAt)
}

func TestApplyUnknownID(t *testing.T) {
	store := openTestStore(t)

	name := "x"
	ok, err := store.Apply("does-not-exist", Update{ForwardName: &name})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFinishGuardsTerminalRecords(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Create(CreateParams{
		InstanceID: "i-0abc",
		RemotePort: 80,
		LocalPort:  8080,
		Status:     StatusActive,
	})
	require.NoError(t, err)

	ok, err := store.Finish(rec.ID, StatusStopped, "Stopped by user.")
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := store.Get(rec.ID)
	assert.Equal(t, StatusStopped, got.Status)
	require.NotNil(t, got.EndedAt)
	firstEnd := *got.EndedAt

	// A second terminal transition must be a no-op
	ok, err = store.Finish(rec.ID, StatusFailed, "late reconcile")
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ = store.Get(rec.ID)
	assert.Equal(t, StatusStopped, got.Status)
	assert.Equal(t, "Stopped by user.", got.Note)
	assert.Equal(t, firstEnd, *got.EndedAt)
}

func TestReopenMarksInterrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)

	live, err := store.Create(CreateParams{
		InstanceID: "i-0abc",
		RemotePort: 80,
		LocalPort:  8080,
		Status:     StatusActive,
	})
	require.NoError(t, err)
	sim, err := store.Create(CreateParams{
		InstanceID: "i-0abc",
		RemotePort: 443,
		LocalPort:  8443,
		Status:     StatusSimulatedActive,
	})
	require.NoError(t, err)
	done, err := store.Create(CreateParams{
		InstanceID: "i-0abc",
		RemotePort: 22,
		LocalPort:  2222,
		Status:     StatusActive,
	})
	require.NoError(t, err)
	_, err = store.Finish(done.ID, StatusCompleted, "")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Simulates a crash: the process dies and the next startup repairs
	// whatever was still marked active.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, _ := store.Get(live.ID)
	assert.Equal(t, StatusInterrupted, got.Status)
	assert.NotNil(t, got.EndedAt)

	got, _ = store.Get(sim.ID)
	assert.Equal(t, StatusInterrupted, got.Status)

	got, _ = store.Get(done.ID)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestListForInstanceOrderingAndIsolation(t *testing.T) {
	store := openTestStore(t)

	older, err := store.Create(CreateParams{
		InstanceID: "i-one",
		RemotePort: 80,
		LocalPort:  8080,
		Status:     StatusActive,
	})
	require.NoError(t, err)

	// Push the second record later than the first; the store truncates
	// timestamps to whole seconds.
	started := older.StartedAt.Add(2 * time.Second).Format(time.RFC3339)
	_, err = store.db.Exec(
		`UPDATE port_forward_history SET started_at = ? WHERE record_id = ?`,
		started, older.ID)
	require.NoError(t, err)

	newer, err := store.Create(CreateParams{
		InstanceID: "i-one",
		RemotePort: 443,
		LocalPort:  8443,
		Status:     StatusActive,
	})
	require.NoError(t, err)
	other, err := store.Create(CreateParams{
		InstanceID: "i-two",
		RemotePort: 22,
		LocalPort:  2222,
		Status:     StatusActive,
	})
	require.NoError(t, err)

	records := store.ListForInstance("i-one")
	require.Len(t, records, 2)
	assert.Equal(t, older.ID, records[0].ID) // newest started_at first
	assert.Equal(t, newer.ID, records[1].ID)

	records = store.ListForInstance("i-two")
	require.Len(t, records, 1)
	assert.Equal(t, other.ID, records[0].ID)

	assert.Len(t, store.ListAll(), 3)
}

func TestOpenMigratesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// Build a database from before the forward_name column existed.
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE port_forward_history (
		record_id TEXT PRIMARY KEY,
		instance_id TEXT NOT NULL,
		instance_name TEXT NOT NULL DEFAULT '',
		remote_port INTEGER NOT NULL,
		local_port INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		status TEXT NOT NULL,
		command TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT ''
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO port_forward_history
		(record_id, instance_id, remote_port, local_port, started_at, status)
		VALUES ('legacy1', 'i-0abc', 80, 8080, '2024-01-02T03:04:05Z', 'completed')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, ok := store.Get("legacy1")
	require.True(t, ok)
	assert.Equal(t, "forward-8080-to-80", got.ForwardName)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 2024, got.StartedAt.Year())
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())
}
