package auth

import (
	"testing"
	"time"
)

func TestSessionCacheIssueAndResolve(t *testing.T) {
	c := newSessionCache()
	token := c.issue("alice_01")
	if token == "" {
		t.Fatalf("expected session token")
	}

	username, ok := c.resolve(token)
	if !ok {
		t.Fatalf("expected valid session")
	}
	if username != "alice_01" {
		t.Fatalf("expected alice_01, got %s", username)
	}

	if _, ok := c.resolve("not-a-token"); ok {
		t.Fatalf("unknown token should not resolve")
	}
	if _, ok := c.resolve(""); ok {
		t.Fatalf("empty token should not resolve")
	}
}

func TestSessionCacheExpiry(t *testing.T) {
	c := newSessionCache()
	c.ttl = 10 * time.Millisecond
	token := c.issue("alice_01")

	time.Sleep(25 * time.Millisecond)
	if _, ok := c.resolve(token); ok {
		t.Fatalf("expected expired token to be invalid")
	}
}

func TestSessionCacheSlidesExpiry(t *testing.T) {
	c := newSessionCache()
	c.ttl = 50 * time.Millisecond
	token := c.issue("alice_01")

	// Keep touching the session; each resolve pushes the deadline out.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, ok := c.resolve(token); !ok {
			t.Fatalf("expected active session on touch %d", i)
		}
	}
}

func TestSessionCacheDrop(t *testing.T) {
	c := newSessionCache()
	token := c.issue("alice_01")
	c.drop(token)
	if _, ok := c.resolve(token); ok {
		t.Fatalf("expected dropped token to be invalid")
	}
}
