package deadletter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

// DefaultListLimit bounds List when callers pass a non-positive limit.
const DefaultListLimit = 50

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create dir: %v", ErrOpenFailed, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrSchemaFailed, err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dead_letters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		delivery_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		reason TEXT NOT NULL,
		content_type TEXT NOT NULL,
		payload BLOB NOT NULL,
		truncated INTEGER NOT NULL DEFAULT 0,
		received_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_dead_letters_received_at ON dead_letters(received_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts l, truncating its payload to MaxPayloadBytes.
func (s *SQLiteStore) Record(ctx context.Context, l Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(l.Payload) > MaxPayloadBytes {
		l.Payload = truncateUTF8(l.Payload, MaxPayloadBytes)
		l.Truncated = true
	}
	if l.ReceivedAt.IsZero() {
		l.ReceivedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO dead_letters (delivery_id, event_type, reason, content_type, payload, truncated, received_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.DeliveryID, l.EventType, string(l.Reason), l.ContentType, []byte(l.Payload), l.Truncated, l.ReceivedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordFailed, err)
	}
	return nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// List returns up to limit letters, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, delivery_id, event_type, reason, content_type, payload, truncated, received_at FROM dead_letters ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	letters := []Letter{}
	for rows.Next() {
		var (
			l          Letter
			reason     string
			payload    []byte
			receivedMs int64
		)
		if err := rows.Scan(&l.ID, &l.DeliveryID, &l.EventType, &reason, &l.ContentType, &payload, &l.Truncated, &receivedMs); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		l.Reason = Reason(reason)
		l.Payload = string(payload)
		l.ReceivedAt = time.UnixMilli(receivedMs).UTC()
		letters = append(letters, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate: %v", ErrQueryFailed, err)
	}
	return letters, nil
}

// Prune removes letters received before cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM dead_letters WHERE received_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPruneFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", ErrPruneFailed, err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
