package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/calld/internal/model"
)

const jsonSchemaVersion = 1

// JSONStore keeps the whole collection in one JSON blob at a fixed path.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

type jsonBlob struct {
	Version   int            `json:"version"`
	Reminders []jsonReminder `json:"reminders"`
}

type jsonReminder struct {
	ID          string    `json:"id"`
	ContactName string    `json:"contact_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CallDate    string    `json:"call_date"`
	CallTime    string    `json:"call_time"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Notified    bool      `json:"notified"`
	Seq         int64     `json:"seq"`
}

func (s *JSONStore) Load() ([]model.Reminder, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Reminder{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, s.path, err)
	}
	if len(data) == 0 {
		return []model.Reminder{}, nil
	}

	var blob jsonBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %s: %v", ErrStorage, s.path, err)
	}
	out := make([]model.Reminder, 0, len(blob.Reminders))
	for _, jr := range blob.Reminders {
		out = append(out, model.Reminder{
			ID:          jr.ID,
			ContactName: jr.ContactName,
			PhoneNumber: jr.PhoneNumber,
			CallDate:    jr.CallDate,
			CallTime:    jr.CallTime,
			Notes:       jr.Notes,
			CreatedAt:   jr.CreatedAt,
			Notified:    jr.Notified,
			Seq:         jr.Seq,
		})
	}
	return out, nil
}

func (s *JSONStore) Save(reminders []model.Reminder) error {
	blob := jsonBlob{Version: jsonSchemaVersion, Reminders: make([]jsonReminder, 0, len(reminders))}
	for _, r := range reminders {
		blob.Reminders = append(blob.Reminders, jsonReminder{
			ID:          r.ID,
			ContactName: r.ContactName,
			PhoneNumber: r.PhoneNumber,
			CallDate:    r.CallDate,
			CallTime:    r.CallTime,
			Notes:       r.Notes,
			CreatedAt:   r.CreatedAt,
			Notified:    r.Notified,
			Seq:         r.Seq,
		})
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrStorage, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %v", ErrStorage, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, s.path, err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
