package domain

import (
	"strings"
	"time"
)

type SessionID string

type CaptureKind string

const (
	StepAdvanced  CaptureKind = "step_advanced"
	ReadyToSubmit CaptureKind = "ready_to_submit"
)

type CaptureResult struct {
	Kind     CaptureKind
	Subject  string
	Captured PoseStep
	// Next is the step now awaiting capture; zero value once the session is ready to submit.
	Next   PoseStep
	Images []ImagePayload
}

// EnrollmentSession collects one image per pose step for a single subject.
type EnrollmentSession struct {
	ID        SessionID
	Subject   string
	StartedAt time.Time

	step     int
	complete bool
	buffer   CaptureBuffer
}

func NormalizeSubjectName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	return trimmed, nil
}

func NewEnrollmentSession(id SessionID, subject string, startedAt time.Time) (*EnrollmentSession, error) {
	name, err := NormalizeSubjectName(subject)
	if err != nil {
		return nil, err
	}

	return &EnrollmentSession{ID: id, Subject: name, StartedAt: startedAt}, nil
}

func (s *EnrollmentSession) CurrentStep() PoseStep {
	step, _ := StepAt(s.step)
	return step
}

func (s *EnrollmentSession) Captured() int {
	return s.buffer.Len()
}

func (s *EnrollmentSession) Complete() bool {
	return s.complete
}

func (s *EnrollmentSession) Images() []ImagePayload {
	return s.buffer.Images()
}

// Record appends the image for the current step. Capturing the last step seals
// the session instead of advancing past the end of the sequence.
func (s *EnrollmentSession) Record(image ImagePayload) (CaptureResult, error) {
	if s.complete {
		return CaptureResult{}, ErrSessionComplete
	}

	captured := s.CurrentStep()
	s.buffer.Append(image)

	if captured.IsLast() {
		s.complete = true
		return CaptureResult{
			Kind:     ReadyToSubmit,
			Subject:  s.Subject,
			Captured: captured,
			Images:   s.buffer.Images(),
		}, nil
	}

	s.step++
	return CaptureResult{
		Kind:     StepAdvanced,
		Subject:  s.Subject,
		Captured: captured,
		Next:     s.CurrentStep(),
	}, nil
}

// Discard drops every buffered image.
func (s *EnrollmentSession) Discard() {
	s.buffer.Reset()
}
