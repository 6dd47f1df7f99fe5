package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/bnema/faceid-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	CachePathKey    = "cache.path"
	cacheFileMode   = 0o600
	cacheDirMode    = 0o700
	cacheConfigDir  = ".config/fid"
	cacheConfigFile = "subjects.toml"
	tempFilePattern = ".subjects-*.toml.tmp"
)

// SubjectCache keeps the last fetched subject registry on disk so the subject
// list can be shown before the server answers.
type SubjectCache struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SubjectCache = (*SubjectCache)(nil)

func NewSubjectCache(cfg *viper.Viper) (*SubjectCache, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(CachePathKey, filepath.Join(homeDir, cacheConfigDir, cacheConfigFile))

	path := cfg.GetString(CachePathKey)
	if path == "" {
		return nil, errors.New("subjects cache path is empty")
	}
	path, err = normalizeCachePath(path)
	if err != nil {
		return nil, err
	}

	return &SubjectCache{path: path, mu: lockForPath(path)}, nil
}

func (c *SubjectCache) Path() string {
	return c.path
}

func (c *SubjectCache) Load(ctx context.Context) (domain.SubjectRegistry, error) {
	if err := ctx.Err(); err != nil {
		return domain.SubjectRegistry{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	file, err := c.readSchema()
	if err != nil {
		return domain.SubjectRegistry{}, err
	}

	return domain.NewSubjectRegistry(file.Subjects, file.Templates, parseTime(file.FetchedAt)), nil
}

func (c *SubjectCache) Save(ctx context.Context, registry domain.SubjectRegistry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	file := fileSchema{
		FetchedAt: formatTime(registry.FetchedAt),
		Templates: registry.Templates,
		Subjects:  domain.NormalizeSubjects(registry.Subjects),
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return c.writeSchema(file)
}

func (c *SubjectCache) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, domain.ErrSubjectCacheMiss
		}
		return fileSchema{}, fmt.Errorf("read subjects file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode subjects file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeCachePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve subjects path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (c *SubjectCache) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(c.path), cacheDirMode); err != nil {
		return fmt.Errorf("create subjects directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode subjects file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(c.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp subjects file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp subjects file: %w", err)
	}
	if err := tempFile.Chmod(cacheFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp subjects file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp subjects file: %w", err)
	}

	if err := os.Rename(tempName, c.path); err != nil {
		return fmt.Errorf("replace subjects file: %w", err)
	}
	cleanup = false

	return nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
