package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ec2tui/pkg/logging"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultPath is the history database location when none is configured.
const DefaultPath = "port-history.db"

const timeLayout = time.RFC3339

// Store is the durable table of port-forward records. It is append/update
// only: records are never deleted, so the table doubles as an audit trail.
// A single mutex serializes writers since both the command path and the
// reconcile pass update records.
type Store struct {
	db    *sql.DB
	mutex sync.RWMutex
	path  string
}

// Open opens (creating if necessary) the history database at path, migrates
// the schema, and marks any record left active by a previous process as
// interrupted. An error here is fatal to the caller: nothing in the
// application is meaningful without the store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	if err := store.markInterrupted(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to repair unfinished records: %w", err)
	}

	logging.LogDebug("History store initialized at: %s", path)
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS port_forward_history (
		record_id TEXT PRIMARY KEY,
		forward_name TEXT NOT NULL DEFAULT '',
		instance_id TEXT NOT NULL,
		instance_name TEXT NOT NULL,
		remote_port INTEGER NOT NULL,
		local_port INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		status TEXT NOT NULL,
		command TEXT NOT NULL,
		note TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_port_history_instance_started
	ON port_forward_history (instance_id, started_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return s.ensureColumns()
}

// ensureColumns upgrades databases written before the forward_name column
// existed and backfills blank names with the default-name rule.
func (s *Store) ensureColumns() error {
	rows, err := s.db.Query("PRAGMA table_info(port_forward_history)")
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	hasForwardName := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan schema row: %w", err)
		}
		if name == "forward_name" {
			hasForwardName = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if !hasForwardName {
		_, err := s.db.Exec("ALTER TABLE port_forward_history ADD COLUMN forward_name TEXT NOT NULL DEFAULT ''")
		if err != nil {
			return fmt.Errorf("failed to add forward_name column: %w", err)
		}
	}

	_, err = s.db.Exec(`
		UPDATE port_forward_history
		SET forward_name = ('forward-' || local_port || '-to-' || remote_port)
		WHERE TRIM(COALESCE(forward_name, '')) = ''
	`)
	if err != nil {
		return fmt.Errorf("failed to backfill forward names: %w", err)
	}
	return nil
}

// markInterrupted forcibly finishes every record still marked active: the
// runtime registry does not survive restarts, so such records cannot
// correspond to a supervised process anymore.
func (s *Store) markInterrupted() error {
	now := UTCNow().Format(timeLayout)
	_, err := s.db.Exec(`
		UPDATE port_forward_history
		SET status = ?, ended_at = ?, note = ?
		WHERE status IN (?, ?) AND ended_at IS NULL
	`, string(StatusInterrupted), now, "Marked interrupted after app restart.",
		string(StatusActive), string(StatusSimulatedActive))
	if err != nil {
		return err
	}
	return nil
}

// CreateParams carries the caller-supplied fields for a new record.
type CreateParams struct {
	ForwardName  string
	InstanceID   string
	InstanceName string
	RemotePort   int
	LocalPort    int
	Status       Status
	Command      string
	Note         string
}

// Create inserts a new record with a generated identifier and a started_at
// of now. A blank forward name gets the port-based default.
func (s *Store) Create(p CreateParams) (Record, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec := Record{
		ID:           strings.ReplaceAll(uuid.NewString(), "-", ""),
		ForwardName:  coerceName(p.ForwardName, p.LocalPort, p.RemotePort),
		InstanceID:   p.InstanceID,
		InstanceName: p.InstanceName,
		RemotePort:   p.RemotePort,
		LocalPort:    p.LocalPort,
		StartedAt:    UTCNow(),
		Status:       p.Status,
		Command:      p.Command,
		Note:         p.Note,
	}

	_, err := s.db.Exec(`
		INSERT INTO port_forward_history (
			record_id, forward_name, instance_id, instance_name, remote_port, local_port,
			started_at, ended_at, status, command, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)
	`, rec.ID, rec.ForwardName, rec.InstanceID, rec.InstanceName, rec.RemotePort, rec.LocalPort,
		rec.StartedAt.Format(timeLayout), string(rec.Status), rec.Command, nullable(rec.Note))
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert history record: %w", err)
	}

	logging.LogDebug("Created history record %s (%s, %d -> %s:%d, status=%s)",
		rec.ID, rec.ForwardName, rec.LocalPort, rec.InstanceID, rec.RemotePort, rec.Status)
	return rec, nil
}

// Apply applies the non-nil fields of upd to the record. It returns false
// when no record with that identifier exists. The identifier itself is never
// updatable.
func (s *Store) Apply(id string, upd Update) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	columns := []string{}
	values := []interface{}{}
	if upd.ForwardName != nil {
		columns = append(columns, "forward_name = ?")
		values = append(values, *upd.ForwardName)
	}
	if upd.Status != nil {
		columns = append(columns, "status = ?")
		values = append(values, string(*upd.Status))
	}
	if upd.EndedAt != nil {
		columns = append(columns, "ended_at = ?")
		values = append(values, upd.EndedAt.Format(timeLayout))
	}
	if upd.Note != nil {
		columns = append(columns, "note = ?")
		values = append(values, *upd.Note)
	}
	if len(columns) == 0 {
		// Nothing to change; report whether the record exists at all.
		var one int
		err := s.db.QueryRow("SELECT 1 FROM port_forward_history WHERE record_id = ?", id).Scan(&one)
		if err == sql.ErrNoRows {
			return false, nil
		}
		return err == nil, err
	}

	values = append(values, id)
	result, err := s.db.Exec(
		fmt.Sprintf("UPDATE port_forward_history SET %s WHERE record_id = ?", strings.Join(columns, ", ")),
		values...,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update history record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Finish transitions a still-active record to the given terminal status,
// setting ended_at and the note in the same statement. It is a no-op when the
// record is already terminal or unknown, which makes concurrent Stop and
// reconcile updates safe: whichever lands first wins, the other sees false.
func (s *Store) Finish(id string, status Status, note string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result, err := s.db.Exec(`
		UPDATE port_forward_history
		SET status = ?, ended_at = ?, note = ?
		WHERE record_id = ? AND status IN (?, ?)
	`, string(status), UTCNow().Format(timeLayout), note, id,
		string(StatusActive), string(StatusSimulatedActive))
	if err != nil {
		return false, fmt.Errorf("failed to finish history record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		logging.LogDebug("Finish(%s, %s) was a no-op (record terminal or unknown)", id, status)
	}
	return affected > 0, nil
}

const selectColumns = `
	SELECT record_id, forward_name, instance_id, instance_name, remote_port, local_port,
	       started_at, ended_at, status, command, note
	FROM port_forward_history
`

// Get returns the record with the given identifier.
func (s *Store) Get(id string) (Record, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	row := s.db.QueryRow(selectColumns+"WHERE record_id = ?", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, false
	}
	if err != nil {
		logging.LogError("Failed to query history record %s: %v", id, err)
		return Record{}, false
	}
	return rec, true
}

// ListForInstance returns every record for one instance, most recent first.
func (s *Store) ListForInstance(instanceID string) []Record {
	return s.list(selectColumns+"WHERE instance_id = ? ORDER BY started_at DESC", instanceID)
}

// ListAll returns every record in the store, most recent first.
func (s *Store) ListAll() []Record {
	return s.list(selectColumns + "ORDER BY started_at DESC")
}

func (s *Store) list(query string, args ...interface{}) []Record {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		logging.LogError("Failed to query history records: %v", err)
		return []Record{}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			logging.LogError("Failed to scan history row: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		startedAt string
		endedAt   sql.NullString
		status    string
		note      sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.ForwardName, &rec.InstanceID, &rec.InstanceName,
		&rec.RemotePort, &rec.LocalPort, &startedAt, &endedAt, &status, &rec.Command, &note)
	if err != nil {
		return Record{}, err
	}

	// Defensive name defaulting on reads keeps pre-migration rows displayable.
	rec.ForwardName = coerceName(rec.ForwardName, rec.LocalPort, rec.RemotePort)
	rec.Status = Status(status)
	rec.Note = note.String

	if ts, err := time.Parse(timeLayout, startedAt); err == nil {
		rec.StartedAt = ts
	}
	if endedAt.Valid && endedAt.String != "" {
		if ts, err := time.Parse(timeLayout, endedAt.String); err == nil {
			rec.EndedAt = &ts
		}
	}
	return rec, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
