package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pokernight/engine"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "pokernight_local.db"

// SQLiteStore persists the session log in a single local database file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStoreFromEnv() (*SQLiteStore, error) {
	dbPath, err := localDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(dbPath)
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Append(e engine.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("[EventLog] marshal event failed: session=%s type=%s err=%v", e.SessionID, e.Type, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO session_events (session_id, table_id, hand_num, event_type, payload_json, at_ms)
VALUES (?, ?, ?, ?, ?, ?)
`, e.SessionID, e.TableID, int64(e.HandNum), string(e.Type), string(payload), e.At.UTC().UnixMilli())
	if err != nil {
		log.Printf("[EventLog] append failed: session=%s type=%s err=%v", e.SessionID, e.Type, err)
	}
}

func (s *SQLiteStore) ListSession(ctx context.Context, sessionID string) ([]StoredEvent, error) {
	return s.list(ctx, `
SELECT id, payload_json
FROM session_events
WHERE session_id = ?
ORDER BY id ASC
`, sessionID)
}

func (s *SQLiteStore) ListHand(ctx context.Context, sessionID string, handNum uint32) ([]StoredEvent, error) {
	return s.list(ctx, `
SELECT id, payload_json
FROM session_events
WHERE session_id = ?
  AND hand_num = ?
ORDER BY id ASC
`, sessionID, int64(handNum))
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]StoredEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]StoredEvent, 0, 128)
	for rows.Next() {
		var se StoredEvent
		var payload []byte
		if err := rows.Scan(&se.Seq, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &se.Event); err != nil {
			return nil, fmt.Errorf("corrupt event %d: %w", se.Seq, err)
		}
		events = append(events, se)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return events, nil
}

func (s *SQLiteStore) Sessions(ctx context.Context, limit int) ([]SessionInfo, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, MAX(table_id), MIN(at_ms), MAX(at_ms), COUNT(1)
FROM session_events
GROUP BY session_id
ORDER BY MAX(at_ms) DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := make([]SessionInfo, 0, limit)
	for rows.Next() {
		var info SessionInfo
		var firstMs, lastMs int64
		if err := rows.Scan(&info.SessionID, &info.TableID, &firstMs, &lastMs, &info.Events); err != nil {
			return nil, err
		}
		info.FirstAt = time.UnixMilli(firstMs).UTC()
		info.LastAt = time.UnixMilli(lastMs).UTC()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS session_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    table_id TEXT NOT NULL,
    hand_num INTEGER NOT NULL DEFAULT 0,
    event_type TEXT NOT NULL,
    payload_json TEXT NOT NULL,
    at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_hand ON session_events(session_id, hand_num, id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func localDatabasePathFromEnv() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("EVENTLOG_LOCAL_DATABASE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "PokerNight", defaultLocalDBName), nil
}
