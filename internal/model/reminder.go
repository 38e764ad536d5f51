package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrEmptyContactName = errors.New("model: contact name is required")
	ErrInvalidCallDate  = errors.New("model: invalid call date")
	ErrInvalidCallTime  = errors.New("model: invalid call time")
	ErrNotFuture        = errors.New("model: call must be in the future")
)

// Reminder is the sole persistent entity: one scheduled call.
type Reminder struct {
	ID          string
	ContactName string
	PhoneNumber string
	CallDate    string
	CallTime    string
	Notes       string
	CreatedAt   time.Time
	Notified    bool
	// Seq is the insertion sequence number, used only to break DueAt ties.
	Seq int64
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.ContactName) == "" {
		return ErrEmptyContactName
	}
	if _, err := time.Parse(DateLayout, r.CallDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCallDate, r.CallDate)
	}
	if _, err := time.Parse(TimeLayout, r.CallTime); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCallTime, r.CallTime)
	}
	if r.CreatedAt.IsZero() {
		return errors.New("model: reminder created_at is required")
	}
	return nil
}

// DueAt combines CallDate and CallTime in loc. It is the single instant used
// for all ordering and threshold comparisons. Returns the zero time if either
// field does not parse.
func (r Reminder) DueAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	due, err := time.ParseInLocation(DateLayout+" "+TimeLayout, r.CallDate+" "+r.CallTime, loc)
	if err != nil {
		return time.Time{}
	}
	return due
}

// Draft carries the user-supplied fields of a reminder before it is admitted
// to the collection.
type Draft struct {
	ContactName string
	PhoneNumber string
	CallDate    string
	CallTime    string
	Notes       string
}

// Validate checks a draft against now: non-empty contact name, parseable
// date and time, and a due instant strictly after now.
func (d Draft) Validate(now time.Time, loc *time.Location) error {
	if strings.TrimSpace(d.ContactName) == "" {
		return ErrEmptyContactName
	}
	if _, err := time.Parse(DateLayout, d.CallDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCallDate, d.CallDate)
	}
	if _, err := time.Parse(TimeLayout, d.CallTime); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCallTime, d.CallTime)
	}
	if !d.DueAt(loc).After(now) {
		return fmt.Errorf("%w: %s %s", ErrNotFuture, d.CallDate, d.CallTime)
	}
	return nil
}

// DueAt mirrors Reminder.DueAt for a draft.
func (d Draft) DueAt(loc *time.Location) time.Time {
	return Reminder{CallDate: d.CallDate, CallTime: d.CallTime}.DueAt(loc)
}
