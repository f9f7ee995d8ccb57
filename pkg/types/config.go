package types

import "errors"

// Config holds backend selection and parameters for opening a Storage.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
}

// Supported backend names.
const (
	BackendFile = "file"
)

// DefaultFileName is the store file created under DataDir when FileName is empty.
const DefaultFileName = "compilations.json"

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrDataDirEmpty    = errors.New("data directory must not be empty")
	ErrFileNameInvalid = errors.New("file name must not contain a path separator")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	for _, r := range c.FileName {
		if r == '/' || r == '\\' {
			return ErrFileNameInvalid
		}
	}
	return nil
}

// StoreFileName returns FileName, or DefaultFileName when it is unset.
func (c Config) StoreFileName() string {
	if c.FileName == "" {
		return DefaultFileName
	}
	return c.FileName
}
