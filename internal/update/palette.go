package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/calld/internal/commands"
	"github.com/sandeepkv93/calld/internal/model"
	"github.com/sandeepkv93/calld/internal/notify"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			added, addErr := m.Repo.Add(model.Draft{
				ContactName: a.Contact,
				CallDate:    a.Date,
				CallTime:    a.Time,
				Notes:       a.Notes,
			})
			if addErr != nil {
				return commands.Result{}, addErr
			}
			return commands.Result{Message: fmt.Sprintf("scheduled call with %s at %s %s", added.ContactName, added.CallDate, added.CallTime)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			return m.removeByPrefix(a.IDPrefix, false)
		},
		Complete: func(a commands.CompleteArgs) (commands.Result, error) {
			return m.removeByPrefix(a.IDPrefix, true)
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			if a.Subject == "upcoming" {
				next, remaining, ok := m.Engine.Next(m.now())
				if !ok {
					return commands.Result{Message: "no upcoming calls"}, nil
				}
				return commands.Result{Message: fmt.Sprintf("next: %s at %s %s (in %s)", next.ContactName, next.CallDate, next.CallTime, notify.FormatRemaining(remaining))}, nil
			}
			return commands.Result{Message: fmt.Sprintf("%d calls scheduled", m.Repo.Count())}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

// removeByPrefix resolves an id prefix against the collection. Ambiguous or
// unknown prefixes are rejected rather than guessed.
func (m Model) removeByPrefix(prefix string, complete bool) (commands.Result, error) {
	var matchID string
	var matchName string
	count := 0
	for _, item := range m.Repo.List() {
		if strings.HasPrefix(item.ID, prefix) {
			matchID = item.ID
			matchName = item.ContactName
			count++
		}
	}
	if count == 0 {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no reminder matches id prefix %q", prefix)}
	}
	if count > 1 {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("id prefix %q is ambiguous", prefix)}
	}

	var removed bool
	var err error
	verb := "deleted"
	if complete {
		removed, err = m.Repo.Complete(matchID)
		verb = "completed"
	} else {
		removed, err = m.Repo.Delete(matchID)
	}
	if err != nil {
		return commands.Result{}, err
	}
	if !removed {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "reminder disappeared before removal"}
	}
	return commands.Result{Message: fmt.Sprintf("%s call with %s", verb, matchName)}, nil
}

func (m Model) renderCommandPalette() string {
	return "palette\n" + m.commandInput.View()
}
