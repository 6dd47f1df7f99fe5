package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, path string) *SubjectCache {
	t.Helper()

	config := viper.New()
	config.Set(CachePathKey, path)

	cache, err := NewSubjectCache(config)
	require.NoError(t, err)
	return cache
}

func TestSubjectCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, filepath.Join(t.TempDir(), "subjects.toml"))
	fetchedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	registry := domain.NewSubjectRegistry([]string{"Bob", "Alice"}, 10, fetchedAt)

	require.NoError(t, cache.Save(context.Background(), registry))

	got, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Subjects)
	assert.Equal(t, 10, got.Templates)
	assert.True(t, fetchedAt.Equal(got.FetchedAt))
}

func TestSubjectCacheSaveReplacesPreviousRegistry(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, filepath.Join(t.TempDir(), "subjects.toml"))

	require.NoError(t, cache.Save(context.Background(), domain.NewSubjectRegistry([]string{"Alice", "Bob"}, 4, time.Time{})))
	require.NoError(t, cache.Save(context.Background(), domain.NewSubjectRegistry(nil, 0, time.Time{})))

	got, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Subjects)
	assert.NotNil(t, got.Subjects)
	assert.True(t, got.FetchedAt.IsZero())
}

func TestSubjectCacheMissingFileIsCacheMiss(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, filepath.Join(t.TempDir(), "missing", "subjects.toml"))

	_, err := cache.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSubjectCacheMiss)
}

func TestSubjectCacheSaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	cache, err := NewSubjectCache(viper.New())
	require.NoError(t, err)

	require.NoError(t, cache.Save(context.Background(), domain.NewSubjectRegistry([]string{"Alice"}, 1, time.Time{})))

	path := filepath.Join(homeDir, ".config", "fid", "subjects.toml")
	assert.Equal(t, path, cache.Path())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSubjectCacheMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subjects.toml")
	require.NoError(t, os.WriteFile(path, []byte("subjects = ["), 0o600))

	_, err := newTestCache(t, path).Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode subjects file")
}

func TestSubjectCacheLoadNormalizesHandEditedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subjects.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"templates = 3",
		`subjects = [" Bob ", "Alice", "Bob", ""]`,
		"",
	}, "\n")), 0o600))

	got, err := newTestCache(t, path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Subjects)
	assert.Equal(t, 3, got.Templates)
}

func TestSubjectCacheSaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, filepath.Join(t.TempDir(), "subjects.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cache.Save(ctx, domain.NewSubjectRegistry([]string{"Alice"}, 1, time.Time{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSubjectCacheConcurrentSavesAcrossInstancesLeaveValidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subjects.toml")
	cacheA := newTestCache(t, path)
	cacheB := newTestCache(t, path)

	const perCacheWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perCacheWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(cache *SubjectCache, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perCacheWrites; i++ {
			registry := domain.NewSubjectRegistry([]string{prefix + strconv.Itoa(i)}, i, time.Time{})
			errCh <- cache.Save(context.Background(), registry)
		}
	}

	go write(cacheA, "a-")
	go write(cacheB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	got, err := cacheA.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Subjects, 1)
}

func TestSubjectCacheSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subjects.toml")
	require.NoError(t, newTestCache(t, path).Save(context.Background(), domain.NewSubjectRegistry([]string{"Alice"}, 1, time.Time{})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestSubjectCacheFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subjects.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 999\nsubjects = []\n"), 0o600))

	_, err := newTestCache(t, path).Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported subjects schema version")
}
