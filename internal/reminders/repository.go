package reminders

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/calld/internal/model"
	"github.com/sandeepkv93/calld/internal/storage"
)

// DefaultRetention is how long a reminder outlives its due instant before
// PurgeStale removes it.
const DefaultRetention = 24 * time.Hour

// ValidationError rejects a draft at the input boundary; the collection is
// never mutated when one is returned.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reminders: invalid draft: %v", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Repository owns the authoritative in-memory reminder collection. Every
// mutation persists the full collection through the store before returning,
// so the store never observes a state the collection didn't hold. Persistence
// failures are returned to the caller; the in-memory state stays authoritative
// for the session either way.
type Repository struct {
	mu    sync.Mutex
	store storage.Store
	loc   *time.Location
	items []model.Reminder
	seq   int64
	now   func() time.Time
}

func NewRepository(store storage.Store, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{
		store: store,
		loc:   loc,
		items: make([]model.Reminder, 0),
		now:   time.Now,
	}
}

// SetClock overrides the repository clock. Test hook.
func (r *Repository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Load replaces the in-memory collection with the store contents, re-sorted
// by due instant.
func (r *Repository) Load() error {
	loaded, err := r.store.Load()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = loaded
	for _, item := range r.items {
		if item.Seq > r.seq {
			r.seq = item.Seq
		}
	}
	r.sortLocked()
	return nil
}

// Add validates the draft, assigns identity and creation metadata, inserts
// and persists. The returned reminder is the stored entity.
func (r *Repository) Add(draft model.Draft) (model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if err := draft.Validate(now, r.loc); err != nil {
		return model.Reminder{}, &ValidationError{Reason: err}
	}

	r.seq++
	item := model.Reminder{
		ID:          uuid.New().String(),
		ContactName: draft.ContactName,
		PhoneNumber: draft.PhoneNumber,
		CallDate:    draft.CallDate,
		CallTime:    draft.CallTime,
		Notes:       draft.Notes,
		CreatedAt:   now,
		Notified:    false,
		Seq:         r.seq,
	}
	r.items = append(r.items, item)
	r.sortLocked()
	if err := r.persistLocked(); err != nil {
		return item, err
	}
	return item, nil
}

// Delete removes the reminder with the given id. Absent ids are a no-op
// signalled by the boolean, not an error.
func (r *Repository) Delete(id string) (bool, error) {
	return r.remove(id)
}

// Complete removes the reminder with the given id, modeling "call made".
func (r *Repository) Complete(id string) (bool, error) {
	return r.remove(id)
}

func (r *Repository) remove(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, r.persistLocked()
		}
	}
	return false, nil
}

// List returns a copy of the collection sorted ascending by due instant,
// ties broken by insertion order.
func (r *Repository) List() []model.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Reminder, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the reminder with the given id, if present.
func (r *Repository) Get(id string) (model.Reminder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Reminder{}, false
}

func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// MarkNotified flips the notified flag for the given reminder. The flag only
// ever moves false to true; a reminder already notified, or an absent id, is
// an idempotent no-op that does not persist.
func (r *Repository) MarkNotified(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			if r.items[i].Notified {
				return nil
			}
			r.items[i].Notified = true
			return r.persistLocked()
		}
	}
	return nil
}

// PurgeStale removes reminders whose due instant is in the past by more than
// retention, returning the count removed. Persists only when something was
// removed. Called once at startup.
func (r *Repository) PurgeStale(now time.Time, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-retention)
	kept := r.items[:0]
	removed := 0
	for _, item := range r.items {
		if item.DueAt(r.loc).Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, r.persistLocked()
}

func (r *Repository) sortLocked() {
	loc := r.loc
	sort.SliceStable(r.items, func(i, j int) bool {
		di, dj := r.items[i].DueAt(loc), r.items[j].DueAt(loc)
		if di.Equal(dj) {
			return r.items[i].Seq < r.items[j].Seq
		}
		return di.Before(dj)
	})
}

func (r *Repository) persistLocked() error {
	snapshot := make([]model.Reminder, len(r.items))
	copy(snapshot, r.items)
	return r.store.Save(snapshot)
}
