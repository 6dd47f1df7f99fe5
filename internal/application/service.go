package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/bnema/faceid-cli/internal/ports"
)

// Service owns the process-wide client state: the loading gate, the latest
// outcome, the subject registry and the pending subject name. Presenters read it
// through Snapshot and change it only through the service entry points.
type Service struct {
	client ports.RecognitionClient
	frames ports.FrameSource
	cache  ports.SubjectCache
	clock  ports.Clock
	logger *slog.Logger

	mu        sync.Mutex
	loading   bool
	outcome   *domain.Outcome
	registry  domain.SubjectRegistry
	nameField string

	enrollment *EnrollmentController
}

type Snapshot struct {
	State     domain.EnrollmentState
	Captured  int
	Loading   bool
	Outcome   *domain.Outcome
	Registry  domain.SubjectRegistry
	NameField string
}

func NewService(client ports.RecognitionClient, frames ports.FrameSource, cache ports.SubjectCache, clock ports.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Service{
		client: client,
		frames: frames,
		cache:  cache,
		clock:  clock,
		logger: logger,
	}
	s.enrollment = newEnrollmentController(s)

	return s
}

func (s *Service) Enrollment() *EnrollmentController {
	return s.enrollment
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		State:     s.enrollment.state,
		Loading:   s.loading,
		Registry:  s.registry.Clone(),
		NameField: s.nameField,
	}
	if s.enrollment.session != nil {
		snapshot.Captured = s.enrollment.session.Captured()
	}
	if s.outcome != nil {
		outcome := *s.outcome
		snapshot.Outcome = &outcome
	}

	return snapshot
}

func (s *Service) SetNameField(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nameField = name
}

// Bootstrap seeds the registry from the local cache and then refreshes it from
// the server. A failed refresh leaves the cached copy in place.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.cache != nil {
		cached, err := s.cache.Load(ctx)
		switch {
		case err == nil:
			s.mu.Lock()
			s.registry = cached
			s.mu.Unlock()
		case errors.Is(err, domain.ErrSubjectCacheMiss):
		default:
			s.logger.Warn("subjects: load cache failed", "error", err)
		}
	}

	_, err := s.RefreshSubjects(ctx)
	return err
}

func (s *Service) RefreshSubjects(ctx context.Context) (domain.SubjectRegistry, error) {
	fetched, err := s.client.ListSubjects(ctx)
	if err != nil {
		netErr := asNetworkError(domain.FailureList, err)
		s.logger.Warn("subjects: refresh failed", "error", netErr)
		return domain.SubjectRegistry{}, netErr
	}

	fetchedAt := fetched.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = s.clock.Now()
	}
	registry := domain.NewSubjectRegistry(fetched.Subjects, fetched.Templates, fetchedAt)

	s.mu.Lock()
	s.registry = registry
	s.mu.Unlock()

	s.logger.Debug("subjects: registry replaced", "count", registry.Count(), "templates", registry.Templates)

	if s.cache != nil {
		if err := s.cache.Save(ctx, registry); err != nil {
			s.logger.Warn("subjects: save cache failed", "error", err)
		}
	}

	return registry.Clone(), nil
}

func (s *Service) Identify(ctx context.Context) (domain.IdentificationOutcome, error) {
	frame, err := s.beginRecognition()
	if err != nil {
		return domain.IdentificationOutcome{}, err
	}

	result, err := s.client.Identify(ctx, frame)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		netErr := asNetworkError(domain.FailureIdentification, err)
		s.outcome = domain.FailureResult(netErr, s.clock.Now())
		s.logger.Warn("recognition: identify failed", "error", netErr)
		return domain.IdentificationOutcome{}, netErr
	}

	s.outcome = domain.IdentificationResult(result, s.clock.Now())
	s.logger.Debug("recognition: identify done", "matched", result.Matched, "subject", result.Subject)
	return result, nil
}

func (s *Service) Analyze(ctx context.Context) (domain.BiometricEstimate, error) {
	frame, err := s.beginRecognition()
	if err != nil {
		return domain.BiometricEstimate{}, err
	}

	result, err := s.client.Analyze(ctx, frame)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		netErr := asNetworkError(domain.FailureAnalysis, err)
		s.outcome = domain.FailureResult(netErr, s.clock.Now())
		s.logger.Warn("recognition: analyze failed", "error", netErr)
		return domain.BiometricEstimate{}, netErr
	}

	s.outcome = domain.AnalysisResult(result, s.clock.Now())
	s.logger.Debug("recognition: analyze done", "age", result.Age, "emotion", result.DominantEmotion)
	return result, nil
}

// beginRecognition takes the loading gate for a one-shot identify or analyze
// call. Nothing changes when the call is refused or no frame is available.
func (s *Service) beginRecognition() (domain.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.IsIdle(s.enrollment.state) {
		return "", domain.ErrEnrollmentInProgress
	}
	if s.loading {
		return "", domain.ErrRequestInFlight
	}

	frame, ok := s.frames.CaptureFrame()
	if !ok || frame.Empty() {
		return "", domain.ErrNoFrameAvailable
	}

	s.outcome = nil
	s.loading = true
	return frame, nil
}

func asNetworkError(category domain.FailureCategory, err error) *domain.NetworkError {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	return domain.NewNetworkError(category, err)
}
