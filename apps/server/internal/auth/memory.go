package auth

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager is the in-memory account store for single-binary deployments and
// tests. Accounts vanish on restart.
type Manager struct {
	mu       sync.Mutex
	accounts map[string]accountRecord // normalized username -> record
	sessions *sessionCache
}

type accountRecord struct {
	Username     string
	PasswordHash []byte
	LastLoginAt  time.Time
}

func NewManager() *Manager {
	return &Manager{
		accounts: make(map[string]accountRecord),
		sessions: newSessionCache(),
	}
}

func (m *Manager) Register(username, password string) (string, error) {
	if err := validateUsername(username); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}
	normalized := normalizeUsername(username)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	if _, exists := m.accounts[normalized]; exists {
		m.mu.Unlock()
		return "", ErrUsernameTaken
	}
	m.accounts[normalized] = accountRecord{
		Username:     normalized,
		PasswordHash: hash,
		LastLoginAt:  time.Now(),
	}
	m.mu.Unlock()

	return m.sessions.issue(normalized), nil
}

func (m *Manager) Login(username, password string) (string, error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	m.mu.Lock()
	rec, exists := m.accounts[normalized]
	m.mu.Unlock()
	if !exists || bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	m.mu.Lock()
	rec.LastLoginAt = time.Now()
	m.accounts[normalized] = rec
	m.mu.Unlock()

	return m.sessions.issue(normalized), nil
}

func (m *Manager) ResolveSession(token string) (string, bool) {
	return m.sessions.resolve(token)
}

func (m *Manager) Logout(token string) {
	m.sessions.drop(token)
}

func (m *Manager) Close() error { return nil }
