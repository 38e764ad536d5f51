package storage

import (
	"errors"

	"github.com/sandeepkv93/calld/internal/model"
)

// ErrStorage marks persistence read/write failures. Callers keep their
// in-memory state authoritative for the session but must surface the error.
var ErrStorage = errors.New("storage: persistence failure")

// Store is the durable adapter for the reminder collection. Save always
// writes the full collection; Load returns it in unspecified order, the
// repository re-sorts.
type Store interface {
	Load() ([]model.Reminder, error)
	Save(reminders []model.Reminder) error
	Close() error
}
