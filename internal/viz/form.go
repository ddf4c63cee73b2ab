package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const FormTitle = "Space Travel Simulator"

const (
	focusDestination = iota
	focusDuration
	focusStart
	focusCount
)

// Form collects a destination and a duration. Enter on any field presses
// Start; the caller validates the input and may reopen the form with an
// error dialog.
type Form struct {
	destinations []string
	choice       int
	duration     string
	focus        int
	errTitle     string
	errMsg       string
	submitted    bool
	quit         bool
	theme        Theme
}

func NewForm(destinations []string, destination, duration string) Form {
	f := Form{
		destinations: destinations,
		duration:     duration,
		theme:        Themes[0],
	}
	for i, d := range destinations {
		if d == destination {
			f.choice = i
		}
	}
	return f
}

// WithTheme returns a copy of f drawn in th.
func (f Form) WithTheme(th Theme) Form {
	f.theme = th
	return f
}

// WithError returns a reopened copy of f showing a modal error dialog.
func (f Form) WithError(title, msg string) Form {
	f = f.Reopen()
	f.errTitle, f.errMsg = title, msg
	return f
}

// Reopen returns a copy of f ready to be shown again with its input kept.
func (f Form) Reopen() Form {
	f.submitted, f.quit = false, false
	return f
}

func (f Form) Destination() string {
	if len(f.destinations) == 0 {
		return ""
	}
	return f.destinations[f.choice]
}

func (f Form) Duration() string { return f.duration }
func (f Form) Submitted() bool  { return f.submitted }
func (f Form) Quit() bool       { return f.quit }
func (f Form) ShowingError() bool {
	return f.errTitle != ""
}

func (f Form) Init() tea.Cmd { return nil }

func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}
	if key.String() == "ctrl+c" {
		f.quit = true
		return f, tea.Quit
	}

	if f.ShowingError() {
		switch key.String() {
		case "enter", "esc":
			f.errTitle, f.errMsg = "", ""
		}
		return f, nil
	}

	switch key.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % focusCount
		return f, nil
	case "shift+tab", "up":
		f.focus = (f.focus + focusCount - 1) % focusCount
		return f, nil
	case "enter":
		f.submitted = true
		return f, tea.Quit
	case "esc":
		f.quit = true
		return f, tea.Quit
	}

	switch f.focus {
	case focusDestination:
		n := len(f.destinations)
		switch key.String() {
		case "left", "h":
			if n > 0 {
				f.choice = (f.choice + n - 1) % n
			}
		case "right", "l", " ":
			if n > 0 {
				f.choice = (f.choice + 1) % n
			}
		case "q":
			f.quit = true
			return f, tea.Quit
		}
	case focusDuration:
		switch key.Type {
		case tea.KeyBackspace:
			if r := []rune(f.duration); len(r) > 0 {
				f.duration = string(r[:len(r)-1])
			}
		case tea.KeyRunes:
			f.duration += string(key.Runes)
		}
	case focusStart:
		switch key.String() {
		case " ":
			f.submitted = true
			return f, tea.Quit
		case "q":
			f.quit = true
			return f, tea.Quit
		}
	}
	return f, nil
}

func (f Form) View() string {
	th := f.theme
	title := lipgloss.NewStyle().Foreground(th.Primary).Bold(true)
	label := lipgloss.NewStyle().Foreground(th.Muted)
	active := lipgloss.NewStyle().Foreground(th.Text).Bold(true)
	pointer := lipgloss.NewStyle().Foreground(th.Primary).Bold(true).Render("▸")

	var b strings.Builder
	b.WriteString("\n\n    " + title.Render(FormTitle) + "\n    " + Separator(28) + "\n\n")

	cursor := func(focus int) string {
		if f.focus == focus {
			return pointer
		}
		return " "
	}

	b.WriteString("    " + cursor(focusDestination) + " " + label.Render("Destination") + "\n")
	for i, d := range f.destinations {
		mark := "( )"
		style := label
		if i == f.choice {
			mark = "(•)"
			style = active
		}
		b.WriteString(fmt.Sprintf("        %s %s\n", style.Render(mark), style.Render(d)))
	}

	field := f.duration
	if f.focus == focusDuration {
		field += "_"
	}
	b.WriteString("\n    " + cursor(focusDuration) + " " + label.Render("Duration (seconds)") + "\n")
	b.WriteString("        " + lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(th.Muted).Width(16).Render(active.Render(field)) + "\n")

	button := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(th.Muted)
	if f.focus == focusStart {
		button = button.BorderForeground(th.Primary).Foreground(th.Primary).Bold(true)
	}
	b.WriteString("\n    " + cursor(focusStart) + " " + button.Render("Start") + "\n")
	b.WriteString("\n    " + Hint("tab", "next", "←/→", "destination", "enter", "start", "esc", "quit") + "\n")

	if f.ShowingError() {
		return lipgloss.JoinVertical(lipgloss.Left, b.String(), f.dialog())
	}
	return b.String()
}

func (f Form) dialog() string {
	head := lipgloss.NewStyle().Foreground(f.theme.Error).Bold(true).Render(f.errTitle)
	body := lipgloss.NewStyle().Foreground(f.theme.Text).Width(44).Render(f.errMsg)
	return "    " + GlassPanel.BorderForeground(f.theme.Error).Render(head+"\n\n"+body+"\n\n"+Hint("enter", "ok"))
}

// RunForm shows f full screen until the user starts a run or quits and
// returns the final form state.
func RunForm(ctx context.Context, f Form) (Form, error) {
	final, err := tea.NewProgram(f, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return f, err
	}
	return final.(Form), nil
}
