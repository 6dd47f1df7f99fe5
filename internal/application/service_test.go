package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyMatchedOutcome(t *testing.T) {
	t.Parallel()

	distance := 0.273
	client := &fakeRecognitionClient{identifyResult: domain.IdentificationOutcome{Matched: true, Subject: "Bob", Distance: &distance}}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	result, err := svc.Identify(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Matched)

	snapshot := svc.Snapshot()
	assert.False(t, snapshot.Loading)
	require.NotNil(t, snapshot.Outcome)
	require.Equal(t, domain.OutcomeIdentification, snapshot.Outcome.Kind)
	assert.True(t, snapshot.Outcome.Identification.Matched)
	assert.Equal(t, "Bob", snapshot.Outcome.Identification.Subject)
	assert.Equal(t, "0.27", snapshot.Outcome.Identification.DistanceLabel())
}

func TestIdentifyUnmatchedWithoutDistance(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{identifyResult: domain.IdentificationOutcome{Matched: false, Subject: "Unknown"}}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	_, err := svc.Identify(context.Background())
	require.NoError(t, err)

	outcome := svc.Snapshot().Outcome
	require.NotNil(t, outcome)
	assert.False(t, outcome.Identification.Matched)
	assert.Equal(t, "Unknown", outcome.Identification.Subject)
	assert.Nil(t, outcome.Identification.Distance)
	assert.Empty(t, outcome.Identification.DistanceLabel())
}

func TestIdentifyWithoutFrameDoesNotCallServer(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{identifyResult: domain.IdentificationOutcome{Matched: true, Subject: "Bob"}}
	frames := &sequenceFrames{available: true}
	svc, _ := newTestService(client, frames)

	_, err := svc.Identify(context.Background())
	require.NoError(t, err)

	frames.available = false
	_, err = svc.Identify(context.Background())
	require.ErrorIs(t, err, domain.ErrNoFrameAvailable)
	assert.Equal(t, 1, client.identifyCalls)

	outcome := svc.Snapshot().Outcome
	require.NotNil(t, outcome, "a refused capture keeps the previous outcome")
	assert.Equal(t, "Bob", outcome.Identification.Subject)
}

func TestIdentifyFailureCollapsesToNetworkError(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{identifyErr: errServerDown}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	_, err := svc.Identify(context.Background())
	require.Error(t, err)

	var netErr *domain.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, domain.FailureIdentification, netErr.Category)
	assert.ErrorIs(t, err, errServerDown)

	snapshot := svc.Snapshot()
	assert.False(t, snapshot.Loading)
	require.NotNil(t, snapshot.Outcome)
	assert.Equal(t, "identification failed", snapshot.Outcome.Failure)
}

func TestAnalyzeStoresEstimate(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{analyzeResult: domain.BiometricEstimate{Age: 31, Gender: "Woman", DominantEmotion: "happy"}}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	estimate, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 31, estimate.Age)

	outcome := svc.Snapshot().Outcome
	require.NotNil(t, outcome)
	assert.Equal(t, domain.OutcomeAnalysis, outcome.Kind)
	assert.Equal(t, "happy", outcome.Analysis.DominantEmotion)
}

func TestAnalyzeFailure(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{analyzeErr: errServerDown}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	_, err := svc.Analyze(context.Background())
	require.Error(t, err)
	assert.Equal(t, "analysis failed", domain.UserMessage(err))
	assert.False(t, svc.Snapshot().Loading)
}

func TestRecognitionRefusedWhileEnrolling(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{}
	svc, _ := newTestService(client, &sequenceFrames{available: true})
	require.NoError(t, svc.Enrollment().StartSession(context.Background(), "Alice"))

	_, err := svc.Identify(context.Background())
	assert.ErrorIs(t, err, domain.ErrEnrollmentInProgress)
	_, err = svc.Analyze(context.Background())
	assert.ErrorIs(t, err, domain.ErrEnrollmentInProgress)
	assert.Zero(t, client.networkCalls())
}

func TestRecognitionRefusedWhileLoading(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	svc.mu.Lock()
	svc.loading = true
	svc.mu.Unlock()

	_, err := svc.Identify(context.Background())
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)
	assert.ErrorIs(t, svc.Enrollment().StartSession(context.Background(), "Alice"), domain.ErrRequestInFlight)
	assert.Zero(t, client.networkCalls())
}

func TestRefreshSubjectsReplacesRegistry(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{subjects: domain.SubjectRegistry{Subjects: []string{"Carol", "Alice", "Carol"}, Templates: 9}}
	svc, cache := newTestService(client, &sequenceFrames{available: true})

	registry, err := svc.RefreshSubjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Carol"}, registry.Subjects)
	assert.Equal(t, 9, registry.Templates)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), registry.FetchedAt)

	assert.Equal(t, registry, svc.Snapshot().Registry)
	require.NotNil(t, cache.registry)
	assert.Equal(t, registry.Subjects, cache.registry.Subjects)
}

func TestRefreshSubjectsEmptyListIsValid(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(&fakeRecognitionClient{}, &sequenceFrames{available: true})

	registry, err := svc.RefreshSubjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, registry.Subjects)
}

func TestRefreshSubjectsFailureKeepsPreviousRegistry(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{subjects: domain.SubjectRegistry{Subjects: []string{"Alice"}}}
	svc, _ := newTestService(client, &sequenceFrames{available: true})
	_, err := svc.RefreshSubjects(context.Background())
	require.NoError(t, err)

	client.listErr = errServerDown
	_, err = svc.RefreshSubjects(context.Background())
	require.Error(t, err)
	assert.Equal(t, "list failed", domain.UserMessage(err))
	assert.Equal(t, []string{"Alice"}, svc.Snapshot().Registry.Subjects)
}

func TestBootstrapSeedsFromCacheWhenServerUnreachable(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{listErr: errServerDown}
	svc, cache := newTestService(client, &sequenceFrames{available: true})
	cached := domain.NewSubjectRegistry([]string{"Dave"}, 5, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	cache.registry = &cached

	err := svc.Bootstrap(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"Dave"}, svc.Snapshot().Registry.Subjects)
}

func TestBootstrapIgnoresCacheMiss(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{subjects: domain.SubjectRegistry{Subjects: []string{"Erin"}}}
	svc, _ := newTestService(client, &sequenceFrames{available: true})

	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.Equal(t, []string{"Erin"}, svc.Snapshot().Registry.Subjects)
}

func TestSnapshotOutcomeIsCopy(t *testing.T) {
	t.Parallel()

	client := &fakeRecognitionClient{identifyResult: domain.IdentificationOutcome{Matched: true, Subject: "Bob"}}
	svc, _ := newTestService(client, &sequenceFrames{available: true})
	_, err := svc.Identify(context.Background())
	require.NoError(t, err)

	snapshot := svc.Snapshot()
	snapshot.Outcome.Kind = domain.OutcomeFailure

	assert.Equal(t, domain.OutcomeIdentification, svc.Snapshot().Outcome.Kind)
}
