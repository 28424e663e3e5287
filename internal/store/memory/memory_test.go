package memory

import (
	"context"
	"testing"

	"librospese/internal/core"
	"librospese/internal/store"
)

func TestRecordRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	records := []core.Record{{ID: "a", Date: "2025-01-05", Category: core.CategoryGas, Amount: core.AmountFromFloat(40)}}
	if err := s.Save(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected records: %+v", got)
	}

	// The stored collection is a copy, not an alias.
	records[0].ID = "mutated"
	got, _ = s.Load(ctx)
	if got[0].ID != "a" {
		t.Fatal("store must not alias the caller's slice")
	}
}

func TestFailNextSave(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.FailNextSave()
	if err := s.Save(ctx, nil); err == nil {
		t.Fatal("expected armed save to fail")
	}
	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("second save must succeed: %v", err)
	}
}

func TestPresenceSemantics(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Put(ctx, core.Attachment{ExpenseID: "full", Data: []byte("x")}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, core.Attachment{ExpenseID: "empty"}); err != nil {
		t.Fatalf("put tombstone: %v", err)
	}

	present, err := store.Presence(ctx, s, []string{"full", "empty", "missing"})
	if err != nil {
		t.Fatalf("presence: %v", err)
	}
	if len(present) != 1 {
		t.Fatalf("expected exactly one present id, got %v", present)
	}
	if _, ok := present["full"]; !ok {
		t.Fatal("expected full to be present")
	}
}
