package model

import (
	"errors"
	"testing"
	"time"
)

func validReminder() Reminder {
	return Reminder{
		ID:          "rem-1",
		ContactName: "Alice",
		PhoneNumber: "+1 555 0100",
		CallDate:    "2026-09-01",
		CallTime:    "14:30",
		Notes:       "quarterly check-in",
		CreatedAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestReminderValidate(t *testing.T) {
	if err := validReminder().Validate(); err != nil {
		t.Fatalf("valid reminder rejected: %v", err)
	}

	r := validReminder()
	r.ContactName = "   "
	if err := r.Validate(); !errors.Is(err, ErrEmptyContactName) {
		t.Fatalf("expected ErrEmptyContactName, got %v", err)
	}

	r = validReminder()
	r.CallDate = "01-09-2026"
	if err := r.Validate(); !errors.Is(err, ErrInvalidCallDate) {
		t.Fatalf("expected ErrInvalidCallDate, got %v", err)
	}

	r = validReminder()
	r.CallTime = "2pm"
	if err := r.Validate(); !errors.Is(err, ErrInvalidCallTime) {
		t.Fatalf("expected ErrInvalidCallTime, got %v", err)
	}

	r = validReminder()
	r.CreatedAt = time.Time{}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for zero created_at")
	}
}

func TestReminderDueAt(t *testing.T) {
	r := validReminder()
	due := r.DueAt(time.UTC)
	want := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("unexpected due instant: got %v want %v", due, want)
	}

	r.CallTime = "bogus"
	if !r.DueAt(time.UTC).IsZero() {
		t.Fatal("expected zero due instant for unparseable time")
	}
}

func TestDraftValidate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	draft := Draft{ContactName: "Bob", CallDate: "2026-08-30", CallTime: "12:05"}
	if err := draft.Validate(now, time.UTC); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	draft.ContactName = ""
	if err := draft.Validate(now, time.UTC); !errors.Is(err, ErrEmptyContactName) {
		t.Fatalf("expected ErrEmptyContactName, got %v", err)
	}
}

func TestDraftValidateRejectsPast(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	past := Draft{ContactName: "Bob", CallDate: "2026-08-30", CallTime: "11:59"}
	if err := past.Validate(now, time.UTC); !errors.Is(err, ErrNotFuture) {
		t.Fatalf("expected ErrNotFuture for past draft, got %v", err)
	}

	// Exactly now is not strictly in the future either.
	exact := Draft{ContactName: "Bob", CallDate: "2026-08-30", CallTime: "12:00"}
	if err := exact.Validate(now, time.UTC); !errors.Is(err, ErrNotFuture) {
		t.Fatalf("expected ErrNotFuture for due == now, got %v", err)
	}
}
