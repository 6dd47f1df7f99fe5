package session

import (
	"context"
	"time"

	"github.com/bnema/faceid-cli/internal/application"
	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// requestDoneMsg reports the end of a network call started by the model.
type requestDoneMsg struct {
	action string
	err    error
}

// Model is the interactive presenter. It reads everything it draws from the
// service snapshot and runs every network call as a tea.Cmd.
type Model struct {
	ctx        context.Context
	svc        *application.Service
	staleAfter time.Duration
	now        func() time.Time

	styles  styles
	spinner spinner.Model
	input   textinput.Model
	editing bool
	status  string
}

type Option func(*Model)

func WithStaleAfter(d time.Duration) Option {
	return func(m *Model) {
		m.staleAfter = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

func NewModel(ctx context.Context, svc *application.Service, opts ...Option) Model {
	input := textinput.New()
	input.Placeholder = "subject name"
	input.Prompt = "name: "
	input.CharLimit = 64

	m := Model{
		ctx:     ctx,
		svc:     svc,
		now:     time.Now,
		styles:  newStyles(),
		spinner: newSpinner(),
		input:   input,
	}
	for _, opt := range opts {
		opt(&m)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.request("bootstrap", m.svc.Bootstrap))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKey(msg)
	case requestDoneMsg:
		m.status = requestStatus(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snapshot := m.svc.Snapshot()
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.request("refresh", func(ctx context.Context) error {
			_, err := m.svc.RefreshSubjects(ctx)
			return err
		})
	}

	if domain.IsEnrolling(snapshot.State) {
		switch msg.String() {
		case " ", "c":
			return m.capture()
		case "esc":
			m.svc.Enrollment().CancelSession()
		}
		return m, nil
	}

	if snapshot.Loading || !domain.IsIdle(snapshot.State) {
		return m, nil
	}

	switch msg.String() {
	case "i":
		return m, m.request("identify", func(ctx context.Context) error {
			_, err := m.svc.Identify(ctx)
			return err
		})
	case "a":
		return m, m.request("analyze", func(ctx context.Context) error {
			_, err := m.svc.Analyze(ctx)
			return err
		})
	case "e":
		m.editing = true
		m.input.SetValue(snapshot.NameField)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.svc.Enrollment().StartSession(m.ctx, m.input.Value()); err != nil {
			m.status = domain.UserMessage(err)
			return m, nil
		}
		m.editing = false
		m.status = ""
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.svc.SetNameField(m.input.Value())
	return m, cmd
}

// capture records the current pose. Capturing reads a local frame only; the
// batch submission that follows the last pose runs as a command.
func (m Model) capture() (tea.Model, tea.Cmd) {
	controller := m.svc.Enrollment()

	result, err := controller.CapturePose(m.ctx)
	if err != nil {
		m.status = domain.UserMessage(err)
		return m, nil
	}
	if result.Kind != domain.ReadyToSubmit {
		return m, nil
	}

	return m, m.request("submit", func(ctx context.Context) error {
		_, err := controller.FinishAndSubmit(ctx, result.Images, result.Subject)
		return err
	})
}

// requestStatus is the status line for a finished request. Failed identify,
// analyze and submit calls already show up as the outcome.
func requestStatus(msg requestDoneMsg) string {
	if msg.err == nil {
		return ""
	}
	switch msg.action {
	case "refresh", "bootstrap":
		return domain.UserMessage(msg.err)
	}
	if domain.IsNetworkError(msg.err) {
		return ""
	}
	return domain.UserMessage(msg.err)
}

func (m Model) request(action string, run func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return requestDoneMsg{action: action, err: run(ctx)}
	}
}

func (m Model) View() string {
	opts := RenderOptions{
		Now:        m.now(),
		StaleAfter: m.staleAfter,
		Spinner:    m.spinner.View(),
		Status:     m.status,
	}
	if m.editing {
		opts.NameInput = m.input.View()
	}

	return renderView(m.svc.Snapshot(), opts, m.styles)
}

// Run drives the interactive presenter until the user quits.
func Run(ctx context.Context, svc *application.Service, opts ...Option) error {
	p := tea.NewProgram(NewModel(ctx, svc, opts...), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
