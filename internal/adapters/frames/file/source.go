package file

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/bnema/faceid-cli/internal/ports"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrNoImages = errors.New("no readable images found")

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// Source hands out frames read from image files. A directory source cycles
// through its images in name order, so five captures of a five-file directory
// yield the files in sequence.
type Source struct {
	logger *slog.Logger

	mu     sync.Mutex
	frames []string
	next   int
}

var _ ports.FrameSource = (*Source)(nil)

// NewSource opens path, which may be a single image file or a directory of them.
// Files that do not decode as a supported image are skipped.
func NewSource(path string, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open frame source: %w", err)
	}

	candidates := []string{path}
	if info.IsDir() {
		candidates, err = listDir(path)
		if err != nil {
			return nil, err
		}
	}

	frames := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, err := sniffImageFormat(candidate); err != nil {
			logger.Debug("frames: skipping file", "path", candidate, "error", err)
			continue
		}
		frames = append(frames, candidate)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, path)
	}

	return &Source{logger: logger, frames: frames}, nil
}

func (s *Source) Len() int {
	return len(s.frames)
}

// CaptureFrame reads the next image. The file is read at capture time, so a
// frame that disappeared or stopped decoding reports no frame; the cursor only
// moves past a file once it was captured.
func (s *Source) CaptureFrame() (domain.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.frames[s.next]
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("frames: read failed", "path", path, "error", err)
		return "", false
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("frames: decode failed", "path", path, "error", err)
		return "", false
	}

	s.next = (s.next + 1) % len(s.frames)
	s.logger.Debug("frames: captured", "path", path, "format", format, "bytes", len(data))
	return domain.NewFrame(data, contentTypes[format]), true
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}

func sniffImageFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", err
	}
	if _, ok := contentTypes[format]; !ok {
		return "", fmt.Errorf("unsupported image format %q", format)
	}

	return format, nil
}
