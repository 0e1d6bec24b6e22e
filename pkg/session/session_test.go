package session

import (
	"context"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	sess, err := New("op1", "Dr. Example", "tok123", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.ID == "" {
		t.Error("session ID not generated")
	}
	if sess.OperatorID != "op1" {
		t.Errorf("OperatorID = %q, want op1", sess.OperatorID)
	}
	if sess.IsExpired() {
		t.Error("fresh session already expired")
	}

	other, err := New("op1", "Dr. Example", "tok123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == sess.ID {
		t.Error("session IDs should be unique")
	}
}

func TestLocalSession(t *testing.T) {
	sess := Local("op1")
	if sess.OperatorID != "op1" {
		t.Errorf("OperatorID = %q, want op1", sess.OperatorID)
	}
	if sess.Token != "" {
		t.Error("local session should carry no token")
	}
	if sess.IsExpired() {
		t.Error("local session should not expire")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	sess, err := New("op1", "Dr. Example", "tok", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored session")
	}
	if got.OperatorID != "op1" || got.Token != "tok" {
		t.Errorf("Get = %+v, fields lost", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if got != nil {
		t.Error("session still present after Delete")
	}
}

func TestFileStoreMissingSession(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("Get of missing session should return nil, nil")
	}
}

func TestFileStoreExpiredSession(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	sess, err := New("op1", "", "", -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expired session should be treated as missing")
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	live, _ := New("op1", "", "", time.Hour)
	dead, _ := New("op2", "", "", -time.Hour)
	if err := store.Set(ctx, live); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, dead); err != nil {
		t.Fatal(err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("Cleanup removed a live session")
	}
	if got, _ := store.Get(ctx, dead.ID); got != nil {
		t.Error("Cleanup kept an expired session")
	}
}
