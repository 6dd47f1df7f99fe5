package application

import (
	"context"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/google/uuid"
)

type TransitionObserver func(from, to domain.EnrollmentState)

type transition struct {
	from domain.EnrollmentState
	to   domain.EnrollmentState
}

// EnrollmentController sequences the five pose captures of one subject and
// submits them as a single batch. Its fields are guarded by the owning Service's mutex.
type EnrollmentController struct {
	svc *Service

	state     domain.EnrollmentState
	session   *domain.EnrollmentSession
	newID     func() domain.SessionID
	observers []TransitionObserver

	// submitClaimed is set while one FinishAndSubmit owns the sealed batch.
	submitClaimed bool
}

func newEnrollmentController(svc *Service) *EnrollmentController {
	return &EnrollmentController{
		svc:   svc,
		state: domain.Idle{},
		newID: func() domain.SessionID {
			return domain.SessionID(uuid.NewString())
		},
	}
}

// OnTransition registers fn to be called after every state change, outside the lock.
func (c *EnrollmentController) OnTransition(fn TransitionObserver) {
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()

	c.observers = append(c.observers, fn)
}

func (c *EnrollmentController) State() domain.EnrollmentState {
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()

	return c.state
}

// StartSession begins enrollment for subject, replacing any session in progress.
func (c *EnrollmentController) StartSession(_ context.Context, subject string) error {
	name, err := domain.NormalizeSubjectName(subject)
	if err != nil {
		return err
	}

	s := c.svc
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrRequestInFlight
	}

	session, err := domain.NewEnrollmentSession(c.newID(), name, s.clock.Now())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if c.session != nil {
		c.session.Discard()
	}
	c.session = session
	s.outcome = nil
	s.nameField = name
	changed := c.moveTo(domain.Enrolling{Session: session.ID, Subject: name, Step: session.CurrentStep()})
	s.mu.Unlock()

	s.logger.Info("enrollment: session started", "session", session.ID, "subject", name)
	c.notify(changed)
	return nil
}

// CapturePose records the current frame for the current step. When the last step
// is captured the controller moves to Submitting, holds the loading gate and
// returns the sealed batch; the caller must then call FinishAndSubmit.
func (c *EnrollmentController) CapturePose(_ context.Context) (domain.CaptureResult, error) {
	s := c.svc
	s.mu.Lock()

	if _, ok := c.state.(domain.Enrolling); !ok || c.session == nil {
		s.mu.Unlock()
		return domain.CaptureResult{}, domain.ErrNoActiveSession
	}

	frame, ok := s.frames.CaptureFrame()
	if !ok {
		s.mu.Unlock()
		return domain.CaptureResult{}, domain.ErrNoFrameAvailable
	}
	payload, err := domain.DecodeFrame(frame)
	if err != nil {
		s.mu.Unlock()
		return domain.CaptureResult{}, err
	}

	result, err := c.session.Record(payload)
	if err != nil {
		s.mu.Unlock()
		return domain.CaptureResult{}, err
	}

	var changed transition
	if result.Kind == domain.ReadyToSubmit {
		s.loading = true
		changed = c.moveTo(domain.Submitting{Session: c.session.ID, Subject: c.session.Subject, Images: len(result.Images)})
	} else {
		changed = c.moveTo(domain.Enrolling{Session: c.session.ID, Subject: c.session.Subject, Step: result.Next})
	}
	sessionID := c.session.ID
	s.mu.Unlock()

	s.logger.Debug("enrollment: pose captured", "session", sessionID, "pose", result.Captured.Pose, "kind", result.Kind)
	c.notify(changed)
	return result, nil
}

// Capture records a pose and submits the batch right away once it is complete.
// The summary is nil until the submission happened.
func (c *EnrollmentController) Capture(ctx context.Context) (domain.CaptureResult, *domain.RegistrationSummary, error) {
	result, err := c.CapturePose(ctx)
	if err != nil || result.Kind != domain.ReadyToSubmit {
		return result, nil, err
	}

	summary, err := c.FinishAndSubmit(ctx, result.Images, result.Subject)
	if err != nil {
		return result, nil, err
	}
	return result, &summary, nil
}

// CancelSession discards the captured poses without contacting the server.
// It does nothing when no capture is in progress.
func (c *EnrollmentController) CancelSession() {
	s := c.svc
	s.mu.Lock()

	if _, ok := c.state.(domain.Enrolling); !ok {
		s.mu.Unlock()
		return
	}

	sessionID := c.session.ID
	c.session.Discard()
	c.session = nil
	changed := c.moveTo(domain.Idle{})
	s.mu.Unlock()

	s.logger.Info("enrollment: session cancelled", "session", sessionID)
	c.notify(changed)
}

// FinishAndSubmit sends the buffered poses as one batch. The session ends either
// way: a failed submission discards the captures and is not resumable.
func (c *EnrollmentController) FinishAndSubmit(ctx context.Context, images []domain.ImagePayload, subject string) (domain.RegistrationSummary, error) {
	s := c.svc
	s.mu.Lock()
	submitting, ok := c.state.(domain.Submitting)
	if !ok {
		s.mu.Unlock()
		return domain.RegistrationSummary{}, domain.ErrNoActiveSession
	}
	if c.submitClaimed {
		s.mu.Unlock()
		return domain.RegistrationSummary{}, domain.ErrRequestInFlight
	}
	c.submitClaimed = true
	s.mu.Unlock()

	summary, err := s.client.RegisterBatch(ctx, subject, images)

	s.mu.Lock()
	c.submitClaimed = false
	s.loading = false
	if c.session != nil {
		c.session.Discard()
		c.session = nil
	}

	if err != nil {
		netErr := asNetworkError(domain.FailureEnrollment, err)
		s.outcome = domain.FailureResult(netErr, s.clock.Now())
		changed := c.moveTo(domain.Idle{})
		s.mu.Unlock()

		s.logger.Warn("enrollment: submission failed", "session", submitting.Session, "subject", subject, "error", netErr)
		c.notify(changed)
		return domain.RegistrationSummary{}, netErr
	}

	if summary.Subject == "" {
		summary.Subject = subject
	}
	s.outcome = domain.RegistrationResult(summary, s.clock.Now())
	s.nameField = ""
	done := c.moveTo(domain.Done{Session: submitting.Session, Subject: subject, Summary: summary})
	idle := c.moveTo(domain.Idle{})
	s.mu.Unlock()

	s.logger.Info("enrollment: batch registered", "session", submitting.Session, "subject", subject, "images", len(images), "rejected", len(summary.Rejected))
	c.notify(done, idle)

	if _, err := s.RefreshSubjects(ctx); err != nil {
		s.logger.Warn("enrollment: registry refresh after submission failed", "error", err)
	}

	return summary, nil
}

func (c *EnrollmentController) moveTo(to domain.EnrollmentState) transition {
	from := c.state
	c.state = to
	return transition{from: from, to: to}
}

func (c *EnrollmentController) notify(changes ...transition) {
	c.svc.mu.Lock()
	observers := append([]TransitionObserver(nil), c.observers...)
	c.svc.mu.Unlock()

	for _, change := range changes {
		c.svc.logger.Debug("enrollment: state changed", "from", domain.StateLabel(change.from), "to", domain.StateLabel(change.to))
		for _, observer := range observers {
			observer(change.from, change.to)
		}
	}
}
