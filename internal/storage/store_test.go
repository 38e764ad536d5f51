package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/calld/internal/model"
)

func sampleReminders(t *testing.T) []model.Reminder {
	t.Helper()
	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	return []model.Reminder{
		{
			ID:          "rem-1",
			ContactName: "Alice",
			PhoneNumber: "+1 555 0100",
			CallDate:    "2026-09-01",
			CallTime:    "14:30",
			Notes:       "quarterly check-in",
			CreatedAt:   created,
			Seq:         1,
		},
		{
			ID:          "rem-2",
			ContactName: "Bob",
			CallDate:    "2026-09-02",
			CallTime:    "09:00",
			CreatedAt:   created.Add(time.Minute),
			Notified:    true,
			Seq:         2,
		},
	}
}

func assertRoundTrip(t *testing.T, store Store) {
	t.Helper()
	want := sampleReminders(t)
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected count: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].ContactName != want[i].ContactName ||
			got[i].Notified != want[i].Notified || got[i].Seq != want[i].Seq {
			t.Fatalf("mismatch at %d: got %#v want %#v", i, got[i], want[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("created_at mismatch at %d: got %v want %v", i, got[i].CreatedAt, want[i].CreatedAt)
		}
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "calld-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	assertRoundTrip(t, store)
}

func TestSQLiteStoreSaveReplacesCollection(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "calld-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	all := sampleReminders(t)
	if err := store.Save(all); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(all[:1]); err != nil {
		t.Fatalf("save subset: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rem-1" {
		t.Fatalf("expected only rem-1 after replace, got %#v", got)
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "calld.json"))
	assertRoundTrip(t, store)
}

func TestJSONStoreLoadMissingFileIsEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "absent", "calld.json"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %#v", got)
	}
}

func TestJSONStoreCorruptBlobIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calld.json")
	store := NewJSONStore(path)
	if err := store.Save(nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
