package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newAuthMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHTTPHandler(NewManager()).RegisterRoutes(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMeFlow(t *testing.T) {
	mux := newAuthMux(t)

	rec := postJSON(t, mux, "/api/auth/register", credentialsRequest{Username: "alice_01", Password: "secret12"})
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var reg authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil || reg.SessionToken == "" {
		t.Fatalf("register response missing token: %s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.SessionToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	var me meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil || me.Username != "alice_01" {
		t.Fatalf("me response = %s", rec.Body.String())
	}

	rec = postJSON(t, mux, "/api/auth/login", credentialsRequest{Username: "alice_01", Password: "secret12"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	mux := newAuthMux(t)
	if rec := postJSON(t, mux, "/api/auth/register", credentialsRequest{Username: "alice_01", Password: "secret12"}); rec.Code != http.StatusOK {
		t.Fatalf("first register status = %d", rec.Code)
	}
	if rec := postJSON(t, mux, "/api/auth/register", credentialsRequest{Username: "alice_01", Password: "secret12"}); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	mux := newAuthMux(t)
	postJSON(t, mux, "/api/auth/register", credentialsRequest{Username: "alice_01", Password: "secret12"})
	if rec := postJSON(t, mux, "/api/auth/login", credentialsRequest{Username: "alice_01", Password: "wrong-pass"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}
}

func TestLogoutDropsSession(t *testing.T) {
	mux := newAuthMux(t)
	rec := postJSON(t, mux, "/api/auth/register", credentialsRequest{Username: "alice_01", Password: "secret12"})
	var reg authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("register response: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+reg.SessionToken)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.SessionToken)
	rec2 = httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d, want 401", rec2.Code)
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	mux := newAuthMux(t)
	huge := `{"username":"alice_01","password":"` + strings.Repeat("x", maxAuthBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(huge))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized body status = %d, want 400", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	if got := BearerToken("Bearer abc123"); got != "abc123" {
		t.Fatalf("BearerToken = %q", got)
	}
	if got := BearerToken("abc123"); got != "" {
		t.Fatalf("BearerToken without scheme = %q, want empty", got)
	}
	if got := BearerToken(""); got != "" {
		t.Fatalf("BearerToken empty = %q, want empty", got)
	}
}
