package session

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// FetchSubjects loads a fresh subject registry.
type FetchSubjects func(context.Context) (domain.SubjectRegistry, error)

type subjectsFetchedMsg struct {
	registry domain.SubjectRegistry
	err      error
}

// subjectsFetchModel shows a spinner while the registry is fetched. cached is
// the last known registry and only feeds the label.
type subjectsFetchModel struct {
	spinner  spinner.Model
	cached   domain.SubjectRegistry
	fetch    tea.Cmd
	registry domain.SubjectRegistry
	err      error
	done     bool
}

func newSubjectsFetchModel(ctx context.Context, cached domain.SubjectRegistry, fetch FetchSubjects) subjectsFetchModel {
	return subjectsFetchModel{
		spinner: newSpinner(),
		cached:  cached,
		fetch: func() tea.Msg {
			registry, err := fetch(ctx)
			return subjectsFetchedMsg{registry: registry, err: err}
		},
	}
}

func (m subjectsFetchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m subjectsFetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case subjectsFetchedMsg:
		m.done = true
		m.registry = msg.registry
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m subjectsFetchModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), fetchLabel(m.cached))
}

func fetchLabel(cached domain.SubjectRegistry) string {
	switch cached.Count() {
	case 0:
		return "Fetching subjects..."
	case 1:
		return "Fetching subjects (1 cached)..."
	default:
		return fmt.Sprintf("Fetching subjects (%d cached)...", cached.Count())
	}
}

// RunSubjectsFetch draws the fetch spinner on output and returns the fetched
// registry. Nothing reads input, so it is safe to run next to stdout output.
func RunSubjectsFetch(ctx context.Context, output io.Writer, cached domain.SubjectRegistry, fetch FetchSubjects) (domain.SubjectRegistry, error) {
	p := tea.NewProgram(
		newSubjectsFetchModel(ctx, cached, fetch),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return domain.SubjectRegistry{}, err
	}

	result, ok := finalModel.(subjectsFetchModel)
	if !ok {
		return domain.SubjectRegistry{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.registry, result.err
}
