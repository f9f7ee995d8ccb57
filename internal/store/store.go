// Package store implements types.Storage as a single JSON file in a
// directory shared by every process that reads or writes compilations.
// The file is the whole list; every save replaces it atomically.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/compilations/pkg/types"
)

// File modes for the data directory and store file. Both must be readable by
// every process sharing the directory.
const (
	dirMode  = 0o755
	fileMode = 0o644
)

// corruptSuffix is appended, with a timestamp, to copies of store files that
// failed to decode before an explicit Save replaced them.
const corruptSuffix = ".corrupt-"

// Ensure FileStore implements the interface.
var _ types.Storage = (*FileStore)(nil)

// FileStore persists compilations to one JSON file. Read-modify-write
// operations are serialised within a process; separate processes rely on
// the atomic rename alone.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// New validates cfg, creates the data directory if needed, and returns a
// store for cfg.DataDir/cfg.StoreFileName(). The file itself is not created
// until the first Save.
func New(cfg types.Config, opts ...Option) (*FileStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}

	s := &FileStore{
		path:   filepath.Join(dir, cfg.StoreFileName()),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the store file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the stored list.
func (s *FileStore) Load() ([]types.Compilation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save atomically replaces the stored list.
func (s *FileStore) Save(list []types.Compilation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(list)
}

// Update moves c to the front of the stored list, replacing any entry with
// the same ID.
func (s *FileStore) Update(c types.Compilation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil && !errors.Is(err, types.ErrNoData) {
		return fmt.Errorf("update %s: %w", c.ID, err)
	}
	return s.save(types.Upserted(list, c))
}

// Delete removes the compilation with id.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if errors.Is(err, types.ErrNoData) {
		return fmt.Errorf("compilation %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	out := make([]types.Compilation, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	if len(out) == len(list) {
		return fmt.Errorf("compilation %s: %w", id, types.ErrNotFound)
	}
	return s.save(out)
}

func (s *FileStore) load() ([]types.Compilation, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, types.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return decode(data)
}

func (s *FileStore) save(list []types.Compilation) error {
	if list == nil {
		list = []types.Compilation{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrEncodeFailed, err)
	}

	if err := s.preserveCorrupt(); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, fileMode); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	s.logger.Debug("saved compilations",
		zap.String("path", s.path),
		zap.Int("count", len(list)),
		zap.Int("bytes", len(data)))
	return nil
}

// preserveCorrupt copies an existing store file that fails to decode to a
// timestamped sibling so that replacing it does not lose its bytes.
func (s *FileStore) preserveCorrupt() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	if _, err := decode(data); !errors.Is(err, types.ErrDecodeFailed) {
		return nil
	}

	backup := fmt.Sprintf("%s%s%d", s.path, corruptSuffix, s.now().UnixNano())
	if err := writeFileAtomic(backup, data, fileMode); err != nil {
		return fmt.Errorf("preserving corrupt store: %w", err)
	}
	s.logger.Warn("preserved undecodable store file before overwrite",
		zap.String("path", s.path),
		zap.String("backup", backup))
	return nil
}

// decode parses a store file. Empty input means nothing was ever stored.
func decode(data []byte) ([]types.Compilation, error) {
	if len(data) == 0 {
		return nil, types.ErrNoData
	}
	var list []types.Compilation
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrDecodeFailed, err)
	}
	if list == nil {
		// The literal null; a stored list is always an array.
		return nil, fmt.Errorf("%w: store holds null, not a list", types.ErrDecodeFailed)
	}
	return list, nil
}
