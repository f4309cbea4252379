package gotrue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askmynotes/backend/internal/core/domain"
)

func TestVerifyTokenReturnsUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon" {
			t.Fatalf("unexpected apikey header: %q", got)
		}
		_, _ = w.Write([]byte(`{"id":"user-1","email":"s@example.com"}`))
	}))
	defer server.Close()

	verifier := NewVerifier(server.URL, "anon", nil)
	userID, err := verifier.VerifyToken(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected user id: %q", userID)
	}
}

func TestVerifyTokenMapsAuthFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	verifier := NewVerifier(server.URL, "anon", nil)
	_, err := verifier.VerifyToken(context.Background(), "bad")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyTokenRejectsEmptyToken(t *testing.T) {
	verifier := NewVerifier("http://localhost", "anon", nil)
	_, err := verifier.VerifyToken(context.Background(), "   ")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyTokenRejectsMissingUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"s@example.com"}`))
	}))
	defer server.Close()

	verifier := NewVerifier(server.URL, "anon", nil)
	_, err := verifier.VerifyToken(context.Background(), "tok")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
