package domain

import "fmt"

// EnrollmentState is one of Idle, Enrolling, Submitting or Done.
type EnrollmentState interface {
	Name() string
	isEnrollmentState()
}

type Idle struct{}

type Enrolling struct {
	Session SessionID
	Subject string
	Step    PoseStep
}

type Submitting struct {
	Session SessionID
	Subject string
	Images  int
}

type Done struct {
	Session SessionID
	Subject string
	Summary RegistrationSummary
}

func (Idle) Name() string       { return "idle" }
func (Enrolling) Name() string  { return "enrolling" }
func (Submitting) Name() string { return "submitting" }
func (Done) Name() string       { return "done" }

func (Idle) isEnrollmentState()       {}
func (Enrolling) isEnrollmentState()  {}
func (Submitting) isEnrollmentState() {}
func (Done) isEnrollmentState()       {}

func (s Enrolling) String() string {
	return fmt.Sprintf("enrolling(%d)", s.Step.Index)
}

func IsEnrolling(state EnrollmentState) bool {
	_, ok := state.(Enrolling)
	return ok
}

func IsIdle(state EnrollmentState) bool {
	_, ok := state.(Idle)
	return ok || state == nil
}

func StateLabel(state EnrollmentState) string {
	if state == nil {
		return Idle{}.Name()
	}
	if s, ok := state.(fmt.Stringer); ok {
		return s.String()
	}
	return state.Name()
}
