package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"pokernight/apps/server/internal/auth"
	"pokernight/apps/server/internal/room"
	"pokernight/apps/server/internal/wire"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection is one websocket client. Until the hello handshake resolves a
// username the connection may not touch any table.
type Connection struct {
	ID       string
	Username string
	Conn     *websocket.Conn
	Send     chan []byte

	gateway *Gateway
	room    *room.Room
}

// Gateway accepts websocket clients, authenticates them, and routes their
// messages to rooms.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64

	registry *room.Registry
	auth     auth.Service
}

func New(registry *room.Registry, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		registry:    registry,
		auth:        authService,
	}
}

// HandleWebSocket upgrades the request and starts the connection pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:      fmt.Sprintf("conn_%d", g.nextConnID),
		Conn:    conn,
		Send:    make(chan []byte, 256),
		gateway: g,
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", c.ID, total)

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Connection) handleMessage(data []byte) {
	var msg wire.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.send(wire.Err("bad-request", "invalid message format"))
		return
	}

	if c.Username == "" && msg.Type != wire.ClientHello {
		c.send(wire.Err("unauthenticated", "hello required first"))
		return
	}

	switch msg.Type {
	case wire.ClientHello:
		c.handleHello(msg)
	case wire.ClientCreateTable:
		c.handleCreateTable(msg)
	case wire.ClientJoinTable:
		c.handleJoinTable(msg)
	case wire.ClientOptions:
		c.handleOptions()
	default:
		c.handleTableMessage(msg)
	}
}

func (c *Connection) handleHello(msg wire.ClientMessage) {
	username, ok := c.gateway.auth.ResolveSession(msg.Token)
	if !ok {
		c.send(wire.Err("unauthenticated", "invalid session token"))
		return
	}
	c.Username = username
	c.send(wire.ServerMessage{Type: wire.ServerWelcome, Seat: username})
	log.Printf("[Gateway] %s authenticated as %s", c.ID, username)
}

func (c *Connection) handleCreateTable(msg wire.ClientMessage) {
	r, err := c.gateway.registry.Create(msg.SmallBlind, msg.BigBlind, msg.Straddle, msg.MaxSeats)
	if err != nil {
		c.send(wire.Err("create-failed", err.Error()))
		return
	}
	c.joinRoom(r, msg.Name)
}

func (c *Connection) handleJoinTable(msg wire.ClientMessage) {
	r, ok := c.gateway.registry.Get(msg.TableID)
	if !ok {
		c.send(wire.Err("no-such-table", "table not found"))
		return
	}
	c.joinRoom(r, msg.Name)
}

func (c *Connection) joinRoom(r *room.Room, name string) {
	if name == "" {
		name = c.Username
	}
	if err := r.Join(c.Username, name, c.send); err != nil {
		c.send(wire.Err("join-failed", err.Error()))
		return
	}
	c.room = r
	c.send(wire.ServerMessage{Type: wire.ServerJoined, TableID: r.ID, Seat: c.Username})
	log.Printf("[Gateway] %s joined table %s", c.Username, r.ID)
}

func (c *Connection) handleOptions() {
	if c.room == nil {
		c.send(wire.Err("no-table", "not at a table"))
		return
	}
	opts, err := c.room.Options(c.Username)
	if err != nil {
		c.send(wire.Err("rejected", err.Error()))
		return
	}
	c.send(wire.ServerMessage{Type: wire.ServerOptions, TableID: c.room.ID, Options: opts})
}

func (c *Connection) handleTableMessage(msg wire.ClientMessage) {
	if c.room == nil {
		c.send(wire.Err("no-table", "not at a table"))
		return
	}
	if err := c.room.Submit(c.Username, msg); err != nil {
		c.send(wire.Err("rejected", err.Error()))
	}
}

func (c *Connection) send(msg wire.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Gateway] marshal push failed: %v", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		// Drop if buffer full
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	if c.room != nil && c.Username != "" {
		c.room.Leave(c.Username)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}
