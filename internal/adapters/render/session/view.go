package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/faceid-cli/internal/application"
	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
	// Spinner is the current spinner frame drawn next to the busy marker.
	Spinner string
	// Status is a transient line, usually the last refused action.
	Status string
	// NameInput replaces the name line while the subject name is being edited.
	NameInput string
}

func Render(snapshot application.Snapshot, opts RenderOptions) string {
	return renderView(snapshot, opts, newStyles())
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Face ID"),
		s.header.Render(headerLine(snapshot, opts)),
	}

	if outcome := renderOutcome(snapshot.Outcome, s); outcome != "" {
		lines = append(lines, s.section.Render(outcome))
	}

	if box := renderInstructions(snapshot, s); box != "" {
		lines = append(lines, s.section.Render(box))
	}

	if opts.NameInput != "" {
		lines = append(lines, s.section.Render(opts.NameInput))
	}

	if opts.Status != "" {
		lines = append(lines, s.warning.Render(opts.Status))
	}

	lines = append(lines,
		s.section.Render(renderSubjects(snapshot.Registry, opts, s)),
		s.section.Render(renderControls(snapshot, s)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(snapshot application.Snapshot, opts RenderOptions) string {
	parts := []string{"state: " + domain.StateLabel(snapshot.State)}
	if name := strings.TrimSpace(snapshot.NameField); name != "" {
		parts = append(parts, "name: "+name)
	}
	if snapshot.Loading {
		busy := "working..."
		if opts.Spinner != "" {
			busy = opts.Spinner + " " + busy
		}
		parts = append(parts, busy)
	}

	return strings.Join(parts, " | ")
}

// OutcomeLine is the one-line plain text form of an outcome.
func OutcomeLine(outcome *domain.Outcome) string {
	if outcome == nil {
		return ""
	}

	switch outcome.Kind {
	case domain.OutcomeIdentification:
		if outcome.Identification == nil {
			return ""
		}
		return identificationLine(*outcome.Identification)
	case domain.OutcomeAnalysis:
		if outcome.Analysis == nil {
			return ""
		}
		return analysisLine(*outcome.Analysis)
	case domain.OutcomeRegistration:
		if outcome.Registration == nil {
			return ""
		}
		return "enrolled: " + outcome.Registration.Message
	case domain.OutcomeFailure:
		return outcome.Failure
	default:
		return ""
	}
}

// OutcomeLines is the outcome line followed by its secondary detail lines.
func OutcomeLines(outcome *domain.Outcome) []string {
	line := OutcomeLine(outcome)
	if line == "" {
		return nil
	}
	return append([]string{line}, outcomeDetails(outcome)...)
}

// RenderRegistry renders the subject list on its own.
func RenderRegistry(registry domain.SubjectRegistry, opts RenderOptions) string {
	return renderSubjects(registry, opts, newStyles())
}

func identificationLine(result domain.IdentificationOutcome) string {
	if !result.Matched {
		return "✘ " + result.Subject
	}

	line := "✔ " + result.Subject
	if distance := result.DistanceLabel(); distance != "" {
		line += " (" + distance + ")"
	}
	return line
}

func analysisLine(estimate domain.BiometricEstimate) string {
	return fmt.Sprintf("%d | %s | %s", estimate.Age, estimate.Gender, estimate.DominantEmotion)
}

func renderOutcome(outcome *domain.Outcome, s styles) string {
	line := OutcomeLine(outcome)
	if line == "" {
		return ""
	}

	var style lipgloss.Style
	switch outcome.Kind {
	case domain.OutcomeIdentification:
		style = s.unmatched
		if outcome.Identification.Matched {
			style = s.matched
		}
	case domain.OutcomeAnalysis:
		style = s.analysis
	case domain.OutcomeRegistration:
		style = s.enrolled
	default:
		style = s.failure
	}

	parts := []string{style.Render(line)}
	for _, detail := range outcomeDetails(outcome) {
		parts = append(parts, s.detail.Render(detail))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// outcomeDetails lists the secondary lines shown under an outcome.
func outcomeDetails(outcome *domain.Outcome) []string {
	var details []string

	switch outcome.Kind {
	case domain.OutcomeIdentification:
		result := outcome.Identification
		if result.Matched {
			break
		}
		if result.Detail != "" {
			details = append(details, result.Detail)
		}
		if result.Confidence != nil {
			details = append(details, fmt.Sprintf("detection confidence: %.2f", *result.Confidence))
		}
	case domain.OutcomeRegistration:
		for _, rejected := range outcome.Registration.Rejected {
			details = append(details, "rejected: "+rejected)
		}
	}

	return details
}

func renderInstructions(snapshot application.Snapshot, s styles) string {
	switch state := snapshot.State.(type) {
	case domain.Enrolling:
		return s.instruction.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Enrolling %s", state.Subject),
			s.step.Render(fmt.Sprintf("%d/%d %s", state.Step.Ordinal(), domain.StepCount, state.Step.Label)),
			progressDots(snapshot.Captured, s),
		))
	case domain.Submitting:
		return s.instruction.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Submitting %d poses for %s", state.Images, state.Subject),
			progressDots(domain.StepCount, s),
		))
	default:
		return ""
	}
}

func progressDots(captured int, s styles) string {
	var b strings.Builder
	for i := 0; i < domain.StepCount; i++ {
		if i < captured {
			b.WriteString(s.dotDone.Render("●"))
		} else {
			b.WriteString(s.dotPending.Render("○"))
		}
	}
	return b.String()
}

func renderSubjects(registry domain.SubjectRegistry, opts RenderOptions, s styles) string {
	heading := fmt.Sprintf("subjects: %d", registry.Count())
	if registry.Templates > 0 {
		heading += fmt.Sprintf(" (%d templates)", registry.Templates)
	}
	if !opts.Now.IsZero() && opts.StaleAfter > 0 && registry.IsStale(opts.Now, opts.StaleAfter) {
		heading += " " + s.warning.Render("[stale]")
	}

	parts := []string{s.header.Render(heading)}
	if registry.Count() == 0 {
		parts = append(parts, s.empty.Render("No subjects enrolled."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, name := range registry.Subjects {
		parts = append(parts, s.subject.Render("• "+name))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

type control struct {
	key   string
	label string
}

// renderControls hides identify, analyze and enroll while a session runs and
// greys out every network action while a request is outstanding.
func renderControls(snapshot application.Snapshot, s styles) string {
	var controls []control
	if domain.IsEnrolling(snapshot.State) {
		controls = []control{{"space", "capture"}, {"esc", "cancel"}}
	} else if domain.IsIdle(snapshot.State) {
		controls = []control{{"i", "identify"}, {"a", "analyze"}, {"e", "enroll"}}
	}
	controls = append(controls, control{"r", "refresh"}, control{"q", "quit"})

	rendered := make([]string, 0, len(controls))
	for _, c := range controls {
		text := s.key.Render(c.key) + " " + c.label
		if snapshot.Loading && c.key != "q" {
			text = s.disabled.Render(c.key + " " + c.label)
		}
		rendered = append(rendered, text)
	}

	return strings.Join(rendered, "  ")
}
