package types

import (
	"context"
	"errors"
)

// Storage persists the full list of compilations as a single unit.
// List order is display order.
type Storage interface {
	// Load reads and decodes the whole list. Returns ErrNoData if nothing
	// has ever been written, and an error wrapping ErrDecodeFailed if stored
	// bytes do not parse. Load never writes.
	Load() ([]Compilation, error)

	// Save atomically replaces the stored list. Returns an error wrapping
	// ErrEncodeFailed if the list cannot be serialised; nothing is written
	// in that case.
	Save(list []Compilation) error

	// Update loads the list, removes any entry with c's ID, inserts c at the
	// front, and saves. ErrNoData is treated as an empty list; a decode
	// failure aborts without writing.
	Update(c Compilation) error

	// Delete removes the compilation with id. Returns ErrNotFound if absent.
	Delete(id string) error
}

// WatchFunc receives the result of reloading a Storage after it changed.
type WatchFunc func(list []Compilation, err error)

// Watcher is implemented by storages that can report changes made by other
// processes sharing them.
type Watcher interface {
	// Watch calls fn after every change until ctx is done.
	Watch(ctx context.Context, fn WatchFunc) error
}

// Storage errors.
var (
	ErrNoData       = errors.New("no data has been stored")
	ErrDecodeFailed = errors.New("stored data could not be decoded")
	ErrEncodeFailed = errors.New("data could not be encoded")
)

// Entity errors.
var (
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidName    = errors.New("name must not be empty")
	ErrInvalidContent = errors.New("content must not be empty")
	ErrCorruptData    = errors.New("corrupt data")
	ErrNotLink        = errors.New("item is not a link")
)
