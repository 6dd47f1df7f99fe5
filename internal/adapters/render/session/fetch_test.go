package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLabelMentionsCachedCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Fetching subjects...", fetchLabel(domain.SubjectRegistry{}))
	assert.Equal(t, "Fetching subjects (1 cached)...", fetchLabel(domain.NewSubjectRegistry([]string{"Bob"}, 1, time.Time{})))
	assert.Equal(t, "Fetching subjects (2 cached)...", fetchLabel(domain.NewSubjectRegistry([]string{"Bob", "Alice"}, 2, time.Time{})))
}

func TestSubjectsFetchModelKeepsFetchedRegistry(t *testing.T) {
	t.Parallel()

	fetched := domain.NewSubjectRegistry([]string{"Alice"}, 4, time.Time{})
	m := newSubjectsFetchModel(context.Background(), domain.SubjectRegistry{}, func(context.Context) (domain.SubjectRegistry, error) {
		return fetched, nil
	})
	assert.Contains(t, m.View(), "Fetching subjects...")

	msg := m.fetch()
	next, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	done, ok := next.(subjectsFetchModel)
	require.True(t, ok)
	assert.Empty(t, done.View())
	assert.Equal(t, fetched, done.registry)
	assert.NoError(t, done.err)
}

func TestRunSubjectsFetchReturnsRegistry(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	cached := domain.NewSubjectRegistry([]string{"Bob"}, 1, time.Time{})
	registry, err := RunSubjectsFetch(context.Background(), &output, cached, func(context.Context) (domain.SubjectRegistry, error) {
		time.Sleep(150 * time.Millisecond)
		return domain.NewSubjectRegistry([]string{"Bob", "Alice"}, 6, time.Time{}), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, registry.Subjects)
	assert.Contains(t, output.String(), "Fetching subjects (1 cached)")
}

func TestRunSubjectsFetchReturnsError(t *testing.T) {
	t.Parallel()

	failure := domain.NewNetworkError(domain.FailureList, errors.New("down"))
	_, err := RunSubjectsFetch(context.Background(), &bytes.Buffer{}, domain.SubjectRegistry{}, func(context.Context) (domain.SubjectRegistry, error) {
		return domain.SubjectRegistry{}, failure
	})

	require.ErrorIs(t, err, failure)
}
