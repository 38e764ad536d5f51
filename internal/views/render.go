package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	LeftPane   string
	RightPane  string
	StatusLine string
	Toasts     string
	Footer     string
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Foreground(lipgloss.Color("11"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	urgencyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	upcomingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

func RenderApp(data AppData) string {
	left := panelStyle.Width(64).Render(data.LeftPane)
	right := panelStyle.Width(44).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Toasts != "" {
		lines = append(lines, toastStyle.Render(data.Toasts))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

type UpcomingPanelData struct {
	Present   bool
	Contact   string
	Phone     string
	When      string
	Countdown string
	Overdue   bool
}

// RenderUpcomingPanel renders the "next call" pane with its live countdown.
func RenderUpcomingPanel(data UpcomingPanelData) string {
	if !data.Present {
		return "No upcoming calls.\nPress 'a' to schedule one."
	}
	lines := []string{
		upcomingStyle.Render("Next call: " + data.Contact),
	}
	if data.Phone != "" {
		lines = append(lines, "phone: "+data.Phone)
	}
	lines = append(lines, "at: "+data.When)
	countdown := "in " + data.Countdown
	if data.Overdue {
		countdown = urgencyStyle.Render("overdue")
	}
	lines = append(lines, countdown)
	return strings.Join(lines, "\n")
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("Help\n")
	for _, line := range data.Bindings {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if data.HelpView != "" {
		b.WriteString(data.HelpView)
	}
	return b.String()
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
