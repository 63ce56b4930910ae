package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackzampolin/lexsplit/internal/config"
	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/stream"
)

// ErrNoStream is returned when a stage needs the line stream and neither
// the cache nor the workspace has one.
var ErrNoStream = errors.New("no extracted stream: run extract first")

// Env carries what stages share during one run.
type Env struct {
	Config *config.Config
	Home   *home.Dir
	Logger *slog.Logger

	mu     sync.Mutex
	stream *stream.Stream
}

// NewEnv creates a stage environment.
func NewEnv(cfg *config.Config, dir *home.Dir, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	return &Env{Config: cfg, Home: dir, Logger: logger}
}

// SetStream caches a freshly built stream for downstream stages.
func (e *Env) SetStream(s *stream.Stream) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stream = s
}

// Invalidate drops the cached stream so the next Stream call rereads the
// workspace artifacts.
func (e *Env) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stream = nil
}

// Stream returns the cached stream, loading it from the workspace when
// needed.
func (e *Env) Stream() (*stream.Stream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stream != nil {
		return e.stream, nil
	}
	if !e.Home.StreamExists() {
		return nil, ErrNoStream
	}
	s, err := stream.Load(e.Home.TextPath(), e.Home.MetadataPath(), e.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load stream: %w", err)
	}
	e.stream = s
	return s, nil
}
