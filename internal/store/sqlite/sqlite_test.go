package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"librospese/internal/core"
	"librospese/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "librospese.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []core.Record{
		{ID: "a", Date: "2025-01-05", Category: core.CategoryGas, Amount: core.AmountFromFloat(40), Note: "gennaio"},
		{ID: "b", Date: "2025-02-01", Category: core.CategoryRent, Amount: core.AmountFromFloat(850), DueDate: "2025-02-05", RemindDays: 3},
	}
	if err := s.Save(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].ID != "b" || got[1].DueDate != "2025-02-05" || got[1].RemindDays != 3 {
		t.Fatalf("record did not round-trip: %+v", got[1])
	}

	// A second save replaces the whole collection.
	if err := s.Save(ctx, records[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only record a, got %+v", got)
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(got))
	}
}

func TestLoadMalformedSlotFailsSoft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, payload) VALUES (?, ?)`, SlotKey, []byte("{not json")); err != nil {
		t.Fatalf("corrupt slot: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load must not error on malformed payload: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(got))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "librospese.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Save(ctx, []core.Record{{ID: "a", Date: "2025-01-05", Category: core.CategoryGas, Amount: core.AmountFromFloat(40)}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("reopen lost data: %+v", got)
	}
}

func TestAttachmentLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := core.Attachment{ExpenseID: "a", Name: "ricevuta.pdf", Type: "application/pdf", Size: 4, Data: []byte("%PDF")}
	if err := s.Put(ctx, a); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "ricevuta.pdf" || string(got.Data) != "%PDF" {
		t.Fatalf("attachment did not round-trip: %+v", got)
	}

	// Replace overwrites by key.
	a.Name = "ricevuta2.pdf"
	if err := s.Put(ctx, a); err != nil {
		t.Fatalf("put replace: %v", err)
	}
	got, _ = s.Get(ctx, "a")
	if got.Name != "ricevuta2.pdf" {
		t.Fatalf("expected replaced attachment, got %+v", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent attachment, got %+v", got)
	}
}

func TestPresence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, core.Attachment{ExpenseID: "full", Name: "r.png", Type: "image/png", Size: 3, Data: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Tombstone: entry exists but holds no payload.
	if err := s.Put(ctx, core.Attachment{ExpenseID: "empty"}); err != nil {
		t.Fatalf("put tombstone: %v", err)
	}

	present, err := store.Presence(ctx, s, []string{"full", "empty", "unknown"})
	if err != nil {
		t.Fatalf("presence: %v", err)
	}
	if _, ok := present["full"]; !ok {
		t.Fatal("expected full to be present")
	}
	if _, ok := present["empty"]; ok {
		t.Fatal("tombstone must not count as present")
	}
	if _, ok := present["unknown"]; ok {
		t.Fatal("unknown id must not count as present")
	}
}

func TestDanglingAttachmentSurvivesRecordDeletion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, []core.Record{{ID: "a", Date: "2025-01-05", Category: core.CategoryGas, Amount: core.AmountFromFloat(40)}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Put(ctx, core.Attachment{ExpenseID: "a", Data: []byte("x")}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Deleting the record is just saving a collection without it.
	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("attachment must survive record deletion")
	}
}
