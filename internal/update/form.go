package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/calld/internal/model"
	"github.com/sandeepkv93/calld/internal/reminders"
	"github.com/sandeepkv93/calld/internal/storage"
)

func (m *Model) resetForm() {
	for i := range m.form.inputs {
		m.form.inputs[i].SetValue("")
		m.form.inputs[i].Blur()
	}
	m.form.focus = fieldContact
	m.form.inputs[fieldContact].Focus()
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewList
		m.Status = StatusBar{Text: "schedule cancelled"}
		return m, nil
	case "tab", "down":
		m.focusField((m.form.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.focusField((m.form.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		return m.submitForm(), nil
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(idx int) {
	m.form.inputs[m.form.focus].Blur()
	m.form.focus = idx
	m.form.inputs[idx].Focus()
}

// submitForm builds a draft from the inputs and hands it to the repository.
// Validation errors keep the form open; storage errors are surfaced but the
// reminder is kept for the session.
func (m Model) submitForm() Model {
	draft := model.Draft{
		ContactName: strings.TrimSpace(m.form.inputs[fieldContact].Value()),
		PhoneNumber: strings.TrimSpace(m.form.inputs[fieldPhone].Value()),
		CallDate:    strings.TrimSpace(m.form.inputs[fieldDate].Value()),
		CallTime:    strings.TrimSpace(m.form.inputs[fieldTime].Value()),
		Notes:       strings.TrimSpace(m.form.inputs[fieldNotes].Value()),
	}

	added, err := m.Repo.Add(draft)
	var verr *reminders.ValidationError
	switch {
	case errors.As(err, &verr):
		m.Status = StatusBar{Text: fmt.Sprintf("error: %v", verr.Reason), IsError: true}
		return m
	case errors.Is(err, storage.ErrStorage):
		m.LastError = err
		m.CurrentView = ViewList
		m.Status = StatusBar{Text: fmt.Sprintf("saved in memory only, storage error: %v", err), IsError: true}
	case err != nil:
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("error: %v", err), IsError: true}
		return m
	default:
		m.CurrentView = ViewList
		m.Status = StatusBar{Text: fmt.Sprintf("scheduled call with %s at %s %s", added.ContactName, added.CallDate, added.CallTime)}
	}
	m.syncBubbleData()
	return m
}

func (m Model) renderFormView() string {
	var b strings.Builder
	b.WriteString("Schedule a call\n\n")
	for i := range m.form.inputs {
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\nenter save | tab next field | esc cancel")
	return b.String()
}
