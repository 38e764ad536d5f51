package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/calld/internal/notify"
	"github.com/sandeepkv93/calld/internal/reminders"
	"github.com/sandeepkv93/calld/internal/scheduler"
)

type View string

const (
	ViewList View = "Calls"
	ViewAdd  View = "Schedule"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add        string
	Delete     string
	Complete   string
	Permission string
	Help       string
	Quit       string
}

type ToastItem struct {
	Toast     notify.Toast
	ExpiresAt time.Time
}

type UpcomingState struct {
	Present   bool
	Overdue   bool
	Contact   string
	Phone     string
	When      string
	Remaining time.Duration
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Form field order in the add view.
const (
	fieldContact = iota
	fieldPhone
	fieldDate
	fieldTime
	fieldNotes
	fieldCount
)

type FormState struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

type Model struct {
	CurrentView View
	Repo        *reminders.Repository
	Engine      *scheduler.Engine
	Dispatcher  *notify.Dispatcher
	Loc         *time.Location

	Upcoming    UpcomingState
	Toasts      []ToastItem
	Status      StatusBar
	Palette     CommandPaletteState
	HelpVisible bool
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	form         FormState
	listTable    table.Model
	commandInput textinput.Model
	helpModel    help.Model
	now          func() time.Time
}

type EngineEventMsg struct {
	Event scheduler.Event
}

type ExpireToastsMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(repo *reminders.Repository, engine *scheduler.Engine, dispatcher *notify.Dispatcher, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		CurrentView: ViewList,
		Repo:        repo,
		Engine:      engine,
		Dispatcher:  dispatcher,
		Loc:         loc,
		Keys: GlobalKeyMap{
			Add:        "a",
			Delete:     "d",
			Complete:   "c",
			Permission: "N",
			Help:       "?",
			Quit:       "q",
		},
		now: time.Now,
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// SetClock overrides the render clock. Test hook.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Model) initBubbleComponents() {
	cols := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Contact", Width: 16},
		{Title: "Phone", Width: 13},
		{Title: "When", Width: 16},
		{Title: "In", Width: 9},
		{Title: "Notes", Width: 20},
	}
	m.listTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	labels := [fieldCount]struct {
		prompt      string
		placeholder string
	}{
		{"contact> ", "Alice Smith"},
		{"phone>   ", "+1 555 0100 (optional)"},
		{"date>    ", "2026-09-01"},
		{"time>    ", "14:30"},
		{"notes>   ", "optional"},
	}
	for i := range m.form.inputs {
		in := textinput.New()
		in.Prompt = labels[i].prompt
		in.Placeholder = labels[i].placeholder
		in.CharLimit = 256
		in.Width = 42
		m.form.inputs[i] = in
	}

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
}

// syncBubbleData refreshes the table rows from the repository snapshot.
func (m *Model) syncBubbleData() {
	if m.Repo == nil {
		return
	}
	now := m.now()
	items := m.Repo.List()
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		due := item.DueAt(m.Loc)
		countdown := "overdue"
		if due.After(now) {
			countdown = notify.FormatRemaining(due.Sub(now))
		}
		rows = append(rows, table.Row{
			shortID(item.ID),
			item.ContactName,
			item.PhoneNumber,
			item.CallDate + " " + item.CallTime,
			countdown,
			item.Notes,
		})
	}
	cursor := m.listTable.Cursor()
	m.listTable.SetRows(rows)
	if len(rows) > 0 && cursor >= len(rows) {
		m.listTable.SetCursor(len(rows) - 1)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
