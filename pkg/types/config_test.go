package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "userdefaults", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "empty data dir returns ErrDataDirEmpty",
			config:  Config{Backend: BackendFile},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "file name with separator rejected",
			config:  Config{Backend: BackendFile, DataDir: "/tmp/data", FileName: "../x.json"},
			wantErr: ErrFileNameInvalid,
		},
		{
			name:    "valid file config",
			config:  Config{Backend: BackendFile, DataDir: "/tmp/data"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigStoreFileName(t *testing.T) {
	if got := (Config{}).StoreFileName(); got != DefaultFileName {
		t.Errorf("default file name = %q, want %q", got, DefaultFileName)
	}
	if got := (Config{FileName: "shared.json"}).StoreFileName(); got != "shared.json" {
		t.Errorf("file name = %q, want shared.json", got)
	}
}
