// Package pingstore persists update-cycle outcomes in a local SQLite
// database. Outcomes are journaled before any network send, so
// telemetry survives daemon restarts and offline periods; a drainer
// posts unsent rows to the ping endpoint and marks them sent.
package pingstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cruxd/cruxd/pkg/cruxlib"
)

const schema = `
CREATE TABLE IF NOT EXISTS pings (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    component_id TEXT    NOT NULL,
    state        TEXT    NOT NULL,
    success      INTEGER NOT NULL,
    error_cat    INTEGER NOT NULL,
    error_code   INTEGER NOT NULL,
    body         BLOB    NOT NULL,
    created_at   INTEGER NOT NULL,
    sent_at      INTEGER
);
CREATE INDEX IF NOT EXISTS pings_unsent ON pings (sent_at) WHERE sent_at IS NULL;
CREATE INDEX IF NOT EXISTS pings_component ON pings (component_id, created_at);
`

// Store is the outcome journal. Safe for concurrent use; database/sql
// serializes access to the underlying connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ping journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ping journal: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record journals one outcome. Implements cruxlib.PingReporter; the
// engine calls it on its control goroutine, so failures are swallowed
// after being recorded in the returned error of the lower-level insert,
// and the insert itself is a single fast statement.
func (s *Store) Record(item cruxlib.UpdateItem) error {
	success := 0
	if item.State == cruxlib.StateUpdated {
		success = 1
	}
	_, err := s.db.Exec(`
        INSERT INTO pings (component_id, state, success, error_cat, error_code, body, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.State.String(), success,
		int(item.ErrorCategory), item.ErrorCode,
		cruxlib.BuildPingBody(item), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("journal ping for %s: %w", item.ID, err)
	}
	return nil
}

// PendingPing is an unsent journal row.
type PendingPing struct {
	ID          int64
	ComponentID string
	Body        []byte
}

// Pending returns up to limit unsent rows, oldest first.
func (s *Store) Pending(limit int) ([]PendingPing, error) {
	rows, err := s.db.Query(`
        SELECT id, component_id, body FROM pings
        WHERE sent_at IS NULL ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending pings: %w", err)
	}
	defer rows.Close()

	var out []PendingPing
	for rows.Next() {
		var p PendingPing
		if err := rows.Scan(&p.ID, &p.ComponentID, &p.Body); err != nil {
			return nil, fmt.Errorf("scan pending ping: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending pings: %w", err)
	}
	return out, nil
}

// MarkSent stamps the given rows as delivered.
func (s *Store) MarkSent(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("mark pings sent: %w", err)
	}
	now := time.Now().Unix()
	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE pings SET sent_at = ? WHERE id = ?`, now, id); err != nil {
			tx.Rollback()
			return fmt.Errorf("mark ping %d sent: %w", id, err)
		}
	}
	return tx.Commit()
}

// Outcome is one journaled cycle result, as surfaced to the CLI.
type Outcome struct {
	ComponentID string
	State       string
	Success     bool
	ErrorCat    int
	ErrorCode   int
	CreatedAt   time.Time
	Sent        bool
}

// History returns the most recent outcomes, newest first. An empty
// componentID selects all components.
func (s *Store) History(componentID string, limit int) ([]Outcome, error) {
	query := `
        SELECT component_id, state, success, error_cat, error_code, created_at, sent_at IS NOT NULL
        FROM pings`
	args := []any{}
	if componentID != "" {
		query += ` WHERE component_id = ?`
		args = append(args, componentID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ping history: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o         Outcome
			success   int
			createdAt int64
			sent      int
		)
		if err := rows.Scan(&o.ComponentID, &o.State, &success, &o.ErrorCat, &o.ErrorCode, &createdAt, &sent); err != nil {
			return nil, fmt.Errorf("scan ping history: %w", err)
		}
		o.Success = success != 0
		o.Sent = sent != 0
		o.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ping history: %w", err)
	}
	return out, nil
}

// Prune deletes sent rows older than the cutoff and returns how many
// were removed.
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM pings WHERE sent_at IS NOT NULL AND created_at < ?`,
		olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune ping journal: %w", err)
	}
	return res.RowsAffected()
}
