package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type registerCall struct {
	subject string
	images  []domain.ImagePayload
}

type fakeRecognitionClient struct {
	mu sync.Mutex

	identifyResult domain.IdentificationOutcome
	identifyErr    error
	analyzeResult  domain.BiometricEstimate
	analyzeErr     error
	registerResult domain.RegistrationSummary
	registerErr    error
	subjects       domain.SubjectRegistry
	listErr        error

	identifyCalls int
	analyzeCalls  int
	listCalls     int
	registerCalls []registerCall

	// registerEntered and registerRelease, when set, hold RegisterBatch open.
	registerEntered chan struct{}
	registerRelease chan struct{}
}

func (f *fakeRecognitionClient) Identify(_ context.Context, _ domain.Frame) (domain.IdentificationOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identifyCalls++
	return f.identifyResult, f.identifyErr
}

func (f *fakeRecognitionClient) Analyze(_ context.Context, _ domain.Frame) (domain.BiometricEstimate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzeCalls++
	return f.analyzeResult, f.analyzeErr
}

func (f *fakeRecognitionClient) RegisterBatch(_ context.Context, subject string, images []domain.ImagePayload) (domain.RegistrationSummary, error) {
	f.mu.Lock()
	f.registerCalls = append(f.registerCalls, registerCall{subject: subject, images: images})
	entered, release := f.registerEntered, f.registerRelease
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerResult, f.registerErr
}

func (f *fakeRecognitionClient) registerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.registerCalls)
}

func (f *fakeRecognitionClient) ListSubjects(_ context.Context) (domain.SubjectRegistry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.subjects, f.listErr
}

func (f *fakeRecognitionClient) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identifyCalls + f.analyzeCalls + f.listCalls + len(f.registerCalls)
}

// sequenceFrames hands out numbered frames; an empty source has no frame.
type sequenceFrames struct {
	next      int
	available bool
}

func (s *sequenceFrames) CaptureFrame() (domain.Frame, bool) {
	if !s.available {
		return "", false
	}
	frame := domain.NewFrame([]byte{byte(s.next)}, "image/jpeg")
	s.next++
	return frame, true
}

type memorySubjectCache struct {
	registry *domain.SubjectRegistry
	saves    int
	loadErr  error
}

func (c *memorySubjectCache) Load(_ context.Context) (domain.SubjectRegistry, error) {
	if c.loadErr != nil {
		return domain.SubjectRegistry{}, c.loadErr
	}
	if c.registry == nil {
		return domain.SubjectRegistry{}, domain.ErrSubjectCacheMiss
	}
	return *c.registry, nil
}

func (c *memorySubjectCache) Save(_ context.Context, registry domain.SubjectRegistry) error {
	c.saves++
	c.registry = &registry
	return nil
}

var errServerDown = errors.New("dial tcp 127.0.0.1:8000: connection refused")

func newTestService(client *fakeRecognitionClient, frames *sequenceFrames) (*Service, *memorySubjectCache) {
	cache := &memorySubjectCache{}
	clock := fixedClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	return NewService(client, frames, cache, clock, nil), cache
}
