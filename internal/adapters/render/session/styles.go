package session

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	section     lipgloss.Style
	matched     lipgloss.Style
	unmatched   lipgloss.Style
	analysis    lipgloss.Style
	enrolled    lipgloss.Style
	failure     lipgloss.Style
	detail      lipgloss.Style
	warning     lipgloss.Style
	empty       lipgloss.Style
	subject     lipgloss.Style
	instruction lipgloss.Style
	step        lipgloss.Style
	dotDone     lipgloss.Style
	dotPending  lipgloss.Style
	key         lipgloss.Style
	disabled    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:   lipgloss.NewStyle().MarginTop(1),
		matched:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		unmatched: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		analysis:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		enrolled:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		empty:     lipgloss.NewStyle().Faint(true),
		subject:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		instruction: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(0, 1),
		step:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		dotDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		dotPending: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		key:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		disabled:   lipgloss.NewStyle().Faint(true),
	}
}

// newSpinner is the busy indicator shared by the interactive screen and the
// one-shot subject fetch.
func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)
}
