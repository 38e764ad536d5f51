package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/calld/internal/notify"
	"github.com/sandeepkv93/calld/internal/scheduler"
	"github.com/sandeepkv93/calld/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Engine != nil {
		return waitForEventCmd(m.Engine.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			next := m.handlePaletteKey(typed)
			next.syncBubbleData()
			return next, nil
		}
		if m.CurrentView == ViewAdd {
			next, cmd := m.handleFormKey(typed)
			next.syncBubbleData()
			return next, cmd
		}
		return m.handleListKey(typed)

	case EngineEventMsg:
		next := m.applyEngineEvent(typed.Event)
		next.syncBubbleData()
		cmds := []tea.Cmd{expireToastsCmd()}
		if next.Engine != nil {
			cmds = append(cmds, waitForEventCmd(next.Engine.C()))
		}
		return next, tea.Batch(cmds...)

	case ExpireToastsMsg:
		now := m.now()
		kept := m.Toasts[:0]
		for _, item := range m.Toasts {
			if item.ExpiresAt.After(now) {
				kept = append(kept, item)
			}
		}
		m.Toasts = kept
		if len(m.Toasts) > 0 {
			return m, expireToastsCmd()
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Add:
		m.CurrentView = ViewAdd
		m.resetForm()
		return m, nil
	case m.Keys.Delete:
		return m.removeSelected(false), nil
	case m.Keys.Complete:
		return m.removeSelected(true), nil
	case m.Keys.Permission:
		if m.Dispatcher != nil {
			state := m.Dispatcher.RequestPermission()
			m.Status = StatusBar{Text: fmt.Sprintf("notification permission: %s", state)}
		}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.listTable, cmd = m.listTable.Update(msg)
	return m, cmd
}

// removeSelected deletes or completes the reminder under the table cursor.
func (m Model) removeSelected(complete bool) Model {
	items := m.Repo.List()
	idx := m.listTable.Cursor()
	if idx < 0 || idx >= len(items) {
		m.Status = StatusBar{Text: "no reminder selected"}
		return m
	}
	target := items[idx]

	var removed bool
	var err error
	verb := "deleted"
	if complete {
		removed, err = m.Repo.Complete(target.ID)
		verb = "completed"
	} else {
		removed, err = m.Repo.Delete(target.ID)
	}
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("storage error: %v", err), IsError: true}
	} else if removed {
		m.Status = StatusBar{Text: fmt.Sprintf("%s call with %s", verb, target.ContactName)}
	}
	m.syncBubbleData()
	return m
}

// applyEngineEvent folds one scheduling-engine emission into the model: the
// upcoming panel for countdown kinds, dispatcher alerts for threshold kinds.
func (m Model) applyEngineEvent(ev scheduler.Event) Model {
	switch ev.Kind {
	case scheduler.KindTick, scheduler.KindUpcoming:
		m.Upcoming = UpcomingState{
			Present:   true,
			Contact:   ev.Reminder.ContactName,
			Phone:     ev.Reminder.PhoneNumber,
			When:      ev.Reminder.CallDate + " " + ev.Reminder.CallTime,
			Remaining: ev.Remaining,
		}
	case scheduler.KindOverdue:
		m.Upcoming = UpcomingState{
			Present: true,
			Overdue: true,
			Contact: ev.Reminder.ContactName,
			Phone:   ev.Reminder.PhoneNumber,
			When:    ev.Reminder.CallDate + " " + ev.Reminder.CallTime,
		}
	case scheduler.KindIdle:
		m.Upcoming = UpcomingState{}
	}

	if m.Dispatcher != nil {
		for _, t := range m.Dispatcher.Dispatch(ev) {
			m.pushToast(t)
		}
	}
	if ev.Err != nil {
		m.LastError = ev.Err
	}
	return m
}

func (m *Model) pushToast(t notify.Toast) {
	m.Toasts = append(m.Toasts, ToastItem{Toast: t, ExpiresAt: m.now().Add(notify.ToastDuration)})
	if len(m.Toasts) > 5 {
		m.Toasts = m.Toasts[len(m.Toasts)-5:]
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewAdd:
		leftPane = m.renderFormView()
	default:
		leftPane = m.renderListView()
	}
	rightPane := m.renderUpcomingPanel()
	if m.Palette.Active {
		rightPane += "\n" + m.renderCommandPalette()
	}
	if m.HelpVisible {
		rightPane += "\n" + m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("calld | view: %s | %d scheduled", m.CurrentView, m.Repo.Count()),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Toasts:     m.renderToasts(),
		Footer: fmt.Sprintf("keys: %s add | %s delete | %s complete | %s permission | / palette | %s help | %s quit",
			m.Keys.Add, m.Keys.Delete, m.Keys.Complete, m.Keys.Permission, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderListView() string {
	if m.Repo.Count() == 0 {
		return "No calls scheduled.\nPress 'a' to add one."
	}
	return m.listTable.View()
}

func (m Model) renderUpcomingPanel() string {
	return views.RenderUpcomingPanel(views.UpcomingPanelData{
		Present:   m.Upcoming.Present,
		Contact:   m.Upcoming.Contact,
		Phone:     m.Upcoming.Phone,
		When:      m.Upcoming.When,
		Countdown: notify.FormatRemaining(m.Upcoming.Remaining),
		Overdue:   m.Upcoming.Overdue,
	})
}

func (m Model) renderToasts() string {
	if len(m.Toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.Toasts))
	for _, item := range m.Toasts {
		prefix := ""
		if item.Toast.Urgent {
			prefix = "!! "
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, item.Toast.Title, item.Toast.Message))
	}
	return strings.Join(lines, "\n")
}

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Add, Action: "schedule a call"},
		{Key: m.Keys.Delete, Action: "delete selected"},
		{Key: m.Keys.Complete, Action: "mark call made"},
		{Key: m.Keys.Permission, Action: "request notification permission"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) renderHelpView() string {
	var plain []string
	bindings := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
		bindings = append(bindings, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	}) + "\n" + views.RenderMarkdown(paletteHelp)
}

const paletteHelp = `**Palette commands**

- /add <contact> <date> <time> [notes]
- /delete <id-prefix>
- /complete <id-prefix>
- /show upcoming|all
`

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EngineEventMsg{Event: ev}
	}
}

func expireToastsCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return ExpireToastsMsg{} })
}
