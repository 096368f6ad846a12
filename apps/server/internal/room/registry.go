package room

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"pokernight/eventlog"
)

// Registry tracks the live rooms on this server. Rooms remove themselves
// when their session ends.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	store eventlog.Store
}

func NewRegistry(store eventlog.Store) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		store: store,
	}
}

// Create opens a new room with the given structure and registers it.
func (g *Registry) Create(smallBlind, bigBlind int64, straddle bool, maxSeats int) (*Room, error) {
	r, err := New(Params{
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Straddle:   straddle,
		MaxSeats:   maxSeats,
		ActTimeout: actTimeoutFromEnv(),
		Store:      g.store,
	}, g.remove)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.rooms[r.ID] = r
	g.mu.Unlock()
	return r, nil
}

func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) remove(id string) {
	g.mu.Lock()
	delete(g.rooms, id)
	g.mu.Unlock()
}

func actTimeoutFromEnv() time.Duration {
	v := strings.TrimSpace(os.Getenv("ACT_TIMEOUT_SECONDS"))
	if v == "" {
		return defaultActTimeout
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultActTimeout
	}
	return time.Duration(n) * time.Second
}
