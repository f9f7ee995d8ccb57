package compilations

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/compilations/internal/store"
	"github.com/mesh-intelligence/compilations/pkg/types"
)

// Store is a Storage that also reports changes written by other processes.
type Store interface {
	types.Storage
	types.Watcher

	// Path returns the file backing the store.
	Path() string
}

// Open validates cfg and returns the store for cfg.Backend. The data
// directory is created if it does not exist; the store file is not written
// until the first save. A nil logger discards output.
//
// Example:
//
//	s, err := compilations.Open(types.Config{
//	    Backend: types.BackendFile,
//	    DataDir: "/shared/group",
//	}, nil)
func Open(cfg types.Config, logger *zap.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch cfg.Backend {
	case types.BackendFile:
		s, err := store.New(cfg, store.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}
