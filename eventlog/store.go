package eventlog

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"pokernight/engine"
)

var ErrNotFound = errors.New("not found")

// StoredEvent is one persisted session-log entry. Seq is the store-assigned
// append order within the session.
type StoredEvent struct {
	Seq int64 `json:"seq"`
	engine.Event
}

// SessionInfo summarizes one recorded session for listings.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	TableID   string    `json:"table_id"`
	FirstAt   time.Time `json:"first_at"`
	LastAt    time.Time `json:"last_at"`
	Events    int       `json:"events"`
}

// Store is the append-only session log. Append satisfies engine.EventSink
// but writes synchronously; tables wire a store through AsyncSink so the
// write never happens under the table lock. Persistence failures are logged
// and dropped, not surfaced into the game.
type Store interface {
	Close() error
	Append(e engine.Event)
	ListSession(ctx context.Context, sessionID string) ([]StoredEvent, error)
	ListHand(ctx context.Context, sessionID string, handNum uint32) ([]StoredEvent, error)
	Sessions(ctx context.Context, limit int) ([]SessionInfo, error)
}

// NewStoreFromEnv picks a backend from the storage mode: "memory" keeps
// events in process, "local"/"sqlite" opens the local database file, anything
// else connects to Postgres. The returned string names the chosen backend.
func NewStoreFromEnv(mode string) (Store, string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "memory":
		return NewMemoryStore(), "memory", nil
	case "local", "sqlite":
		store, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, "", err
		}
		return store, "sqlite", nil
	default:
		store, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, "", err
		}
		return store, "postgres", nil
	}
}

// MemoryStore keeps the session log in process. It is the default for tests
// and for tables that do not need the log to survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	events []StoredEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Append(e engine.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, StoredEvent{Seq: int64(len(m.events) + 1), Event: e})
}

func (m *MemoryStore) ListSession(_ context.Context, sessionID string) ([]StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredEvent, 0, len(m.events))
	for _, e := range m.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func (m *MemoryStore) ListHand(_ context.Context, sessionID string, handNum uint32) ([]StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredEvent, 0, 32)
	for _, e := range m.events {
		if e.SessionID == sessionID && e.HandNum == handNum {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func (m *MemoryStore) Sessions(_ context.Context, limit int) ([]SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	byID := map[string]*SessionInfo{}
	order := make([]string, 0, 8)
	for _, e := range m.events {
		info, ok := byID[e.SessionID]
		if !ok {
			info = &SessionInfo{SessionID: e.SessionID, TableID: e.TableID, FirstAt: e.At}
			byID[e.SessionID] = info
			order = append(order, e.SessionID)
		}
		info.LastAt = e.At
		info.Events++
	}
	out := make([]SessionInfo, 0, len(order))
	for i := len(order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *byID[order[i]])
	}
	return out, nil
}

func envIntOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
