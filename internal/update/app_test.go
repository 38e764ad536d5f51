package update

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/calld/internal/model"
	"github.com/sandeepkv93/calld/internal/notify"
	"github.com/sandeepkv93/calld/internal/reminders"
	"github.com/sandeepkv93/calld/internal/scheduler"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

type memStore struct {
	items []model.Reminder
}

func (m *memStore) Load() ([]model.Reminder, error) { return m.items, nil }

func (m *memStore) Save(items []model.Reminder) error {
	m.items = make([]model.Reminder, len(items))
	copy(m.items, items)
	return nil
}

func (m *memStore) Close() error { return nil }

type quietNotifier struct{}

func (quietNotifier) Available() bool               { return true }
func (quietNotifier) Send(title, body string) error { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	repo := reminders.NewRepository(&memStore{}, time.UTC)
	repo.SetClock(func() time.Time { return testNow })
	engine := scheduler.NewEngine(repo, time.UTC, 8, scheduler.WithClock(func() time.Time { return testNow }))
	dispatcher := notify.NewDispatcher(quietNotifier{}, false, nil)
	m := NewModel(repo, engine, dispatcher, time.UTC)
	m.SetClock(func() time.Time { return testNow })
	return m
}

func addCall(t *testing.T, m Model, name string, due time.Time) model.Reminder {
	t.Helper()
	added, err := m.Repo.Add(model.Draft{
		ContactName: name,
		CallDate:    due.Format(model.DateLayout),
		CallTime:    due.Format(model.TimeLayout),
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return added
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewList {
		t.Fatalf("expected default view %q, got %q", ViewList, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Upcoming.Present {
		t.Fatal("expected no upcoming call initially")
	}
}

func TestAddKeyOpensForm(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	next := updated.(Model)
	if next.CurrentView != ViewAdd {
		t.Fatalf("expected add view, got %q", next.CurrentView)
	}
}

func TestFormSubmitAddsReminder(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	next := updated.(Model)

	next.form.inputs[fieldContact].SetValue("Alice")
	next.form.inputs[fieldDate].SetValue("2026-08-30")
	next.form.inputs[fieldTime].SetValue("15:00")

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.CurrentView != ViewList {
		t.Fatalf("expected return to list after submit, got %q", next.CurrentView)
	}
	if next.Repo.Count() != 1 {
		t.Fatalf("expected 1 reminder, got %d", next.Repo.Count())
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}
}

func TestFormSubmitRejectsInvalidDraft(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	next := updated.(Model)

	// Empty contact name: rejected, form stays open.
	next.form.inputs[fieldDate].SetValue("2026-08-30")
	next.form.inputs[fieldTime].SetValue("15:00")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.CurrentView != ViewAdd {
		t.Fatal("expected form to stay open on validation error")
	}
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
	if next.Repo.Count() != 0 {
		t.Fatal("collection must be unchanged")
	}
}

func TestDeleteKeyRemovesSelected(t *testing.T) {
	m := newTestModel(t)
	addCall(t, m, "Alice", testNow.Add(time.Hour))
	m.syncBubbleData()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	next := updated.(Model)
	if next.Repo.Count() != 0 {
		t.Fatalf("expected empty collection, got %d", next.Repo.Count())
	}
	if !strings.Contains(next.Status.Text, "deleted call with Alice") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestEngineEventUpdatesUpcomingPanel(t *testing.T) {
	m := newTestModel(t)
	rem := addCall(t, m, "Alice", testNow.Add(10*time.Minute))

	updated, _ := m.Update(EngineEventMsg{Event: scheduler.Event{
		Kind:      scheduler.KindTick,
		Reminder:  rem,
		Remaining: 10 * time.Minute,
	}})
	next := updated.(Model)
	if !next.Upcoming.Present || next.Upcoming.Contact != "Alice" {
		t.Fatalf("unexpected upcoming state: %+v", next.Upcoming)
	}
	if len(next.Toasts) != 0 {
		t.Fatal("plain tick must not toast")
	}

	updated, _ = next.Update(EngineEventMsg{Event: scheduler.Event{
		Kind:      scheduler.KindUpcoming,
		Reminder:  rem,
		Remaining: 4 * time.Minute,
	}})
	next = updated.(Model)
	if len(next.Toasts) != 1 {
		t.Fatalf("expected a toast for the upcoming event, got %d", len(next.Toasts))
	}

	updated, _ = next.Update(EngineEventMsg{Event: scheduler.Event{Kind: scheduler.KindIdle}})
	next = updated.(Model)
	if next.Upcoming.Present {
		t.Fatal("idle event must clear the upcoming panel")
	}
}

func TestToastsExpire(t *testing.T) {
	m := newTestModel(t)
	m.pushToast(notify.Toast{Title: "Upcoming call", Message: "Call Alice in 4:00"})
	if len(m.Toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(m.Toasts))
	}

	m.SetClock(func() time.Time { return testNow.Add(notify.ToastDuration + time.Second) })
	updated, _ := m.Update(ExpireToastsMsg{})
	next := updated.(Model)
	if len(next.Toasts) != 0 {
		t.Fatalf("expected toasts pruned, got %d", len(next.Toasts))
	}
}

func TestPaletteAddAndShow(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active")
	}

	next.commandInput.SetValue("add Alice 2026-08-30 15:00 say hi")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.Palette.Active {
		t.Fatal("expected palette closed after execute")
	}
	if next.Repo.Count() != 1 {
		t.Fatalf("expected 1 reminder from palette add, got %d", next.Repo.Count())
	}
	if !strings.Contains(next.Status.Text, "scheduled call with Alice") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestPaletteDeleteByPrefix(t *testing.T) {
	m := newTestModel(t)
	rem := addCall(t, m, "Alice", testNow.Add(time.Hour))

	m.Palette.Active = true
	m.commandInput.SetValue("delete " + rem.ID[:8])
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next := updated.(Model)
	if next.Repo.Count() != 0 {
		t.Fatalf("expected deletion, got %d reminders", next.Repo.Count())
	}
}

func TestPermissionKey(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}})
	next := updated.(Model)
	if !strings.Contains(next.Status.Text, "granted") {
		t.Fatalf("expected granted permission status, got %q", next.Status.Text)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t)
	addCall(t, m, "Alice", testNow.Add(time.Hour))
	m.syncBubbleData()
	m.Status = StatusBar{Text: "all good"}

	out := m.View()
	if !strings.Contains(out, "view: Calls") {
		t.Fatalf("expected view header in output: %q", out)
	}
	if !strings.Contains(out, "Alice") {
		t.Fatal("expected reminder row in output")
	}
	if !strings.Contains(out, "all good") {
		t.Fatal("expected status line in output")
	}
}
