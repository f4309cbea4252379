package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveThenOpenRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	key := "u-1/s-1/d-1_notes.txt"
	if err := store.Save(context.Background(), key, strings.NewReader("lecture body")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(body) != "lecture body" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestOpenMissingKeyFails(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := store.Open(context.Background(), "u-1/s-1/missing.txt"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
