package artifact

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/port"
)

// ErrNotLoaded is returned when no artifacts have been loaded yet.
var ErrNotLoaded = errors.New("artifacts not loaded")

// Store holds the artifacts in service behind an atomically swapped handle.
// Loaded artifacts are never mutated; Reload replaces the whole handle.
type Store struct {
	current    atomic.Pointer[port.Artifacts]
	scalerPath string
	modelPath  string
	logger     *slog.Logger
}

// NewStore creates an empty store reading from the given files.
func NewStore(scalerPath, modelPath string, logger *slog.Logger) *Store {
	return &Store{
		scalerPath: scalerPath,
		modelPath:  modelPath,
		logger:     logger,
	}
}

// Current returns the artifacts in service.
func (s *Store) Current() (*port.Artifacts, error) {
	a := s.current.Load()
	if a == nil {
		return nil, ErrNotLoaded
	}
	return a, nil
}

// Loaded reports whether artifacts are available.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Reload reads the artifact files and swaps them in. On failure the
// previous artifacts stay in service.
func (s *Store) Reload() error {
	a, err := Load(s.scalerPath, s.modelPath)
	if err != nil {
		return err
	}
	s.Set(a)
	s.logger.Info("artifacts loaded",
		"scaler_path", s.scalerPath,
		"model_path", s.modelPath,
		"features", len(a.Scaler.FeatureNames()),
	)
	return nil
}

// Set swaps in an already loaded artifact pair.
func (s *Store) Set(a *port.Artifacts) {
	s.current.Store(a)
}
