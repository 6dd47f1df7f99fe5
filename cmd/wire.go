package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	framefile "github.com/bnema/faceid-cli/internal/adapters/frames/file"
	"github.com/bnema/faceid-cli/internal/adapters/recognition"
	tomlrepo "github.com/bnema/faceid-cli/internal/adapters/repo/toml"
	"github.com/bnema/faceid-cli/internal/application"
	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/bnema/faceid-cli/internal/ports"
	"github.com/spf13/cobra"
)

type app struct {
	service    *application.Service
	cache      ports.SubjectCache
	logger     *slog.Logger
	staleAfter time.Duration
	now        func() time.Time
}

// noFrames stands in when a command runs without --frame or --frames.
type noFrames struct{}

func (noFrames) CaptureFrame() (domain.Frame, bool) {
	return "", false
}

func wireApp(cmd *cobra.Command, opts *rootOptions, framePath string) (*app, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cache, err := tomlrepo.NewSubjectCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire subject cache: %w", err)
	}

	var frames ports.FrameSource = noFrames{}
	if framePath != "" {
		source, err := framefile.NewSource(framePath, logger)
		if err != nil {
			return nil, fmt.Errorf("wire frame source: %w", err)
		}
		frames = source
	}

	client := recognition.Adapter{
		API:            recognition.DefaultAPI(cfg.GetString(apiBaseURLKey)),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.GetDuration(apiTimeoutKey),
		Logger:         logger,
	}

	return &app{
		service:    application.NewService(client, frames, cache, ports.SystemClock{}, logger),
		cache:      cache,
		logger:     logger,
		staleAfter: cfg.GetDuration(cacheStaleAfterKey),
		now:        time.Now,
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
