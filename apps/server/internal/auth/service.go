package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	tokenBytes        = 32
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

// Service is the account/session contract consumed by the gateway and the
// HTTP handlers. Usernames double as seat identities at the table.
type Service interface {
	Register(username, password string) (sessionToken string, err error)
	Login(username, password string) (sessionToken string, err error)
	ResolveSession(token string) (username string, ok bool)
	Logout(token string)
	Close() error
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}

// sessionCache is the in-memory token table shared by every backend.
// Sessions are deliberately not persisted: a server restart logs everyone
// out, accounts survive in whatever store the backend uses.
type sessionCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]sessionRecord
}

type sessionRecord struct {
	Username  string
	ExpiresAt time.Time
}

func newSessionCache() *sessionCache {
	return &sessionCache{
		ttl:      defaultSessionTTL,
		sessions: make(map[string]sessionRecord),
	}
}

func (c *sessionCache) issue(username string) string {
	token := mustToken()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[token] = sessionRecord{
		Username:  username,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	return token
}

// resolve validates a token and slides its expiry forward.
func (c *sessionCache) resolve(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, exists := c.sessions[token]
	if !exists {
		return "", false
	}
	now := time.Now()
	if !now.Before(rec.ExpiresAt) {
		delete(c.sessions, token)
		return "", false
	}
	rec.ExpiresAt = now.Add(c.ttl)
	c.sessions[token] = rec
	return rec.Username, true
}

func (c *sessionCache) drop(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}

func mustToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
