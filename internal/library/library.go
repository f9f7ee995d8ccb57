// Package library implements the operations a user performs on their
// compilations: create, rename, delete, add and edit items, and search.
// Every operation reads from and writes back to a types.Storage; the library
// holds no state of its own between calls.
package library

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/compilations/internal/sqlite"
	"github.com/mesh-intelligence/compilations/pkg/types"
)

// Library applies user operations to a Storage.
type Library struct {
	storage types.Storage
	logger  *zap.Logger
}

// New returns a Library over storage. A nil logger discards output.
func New(storage types.Storage, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{storage: storage, logger: logger}
}

// List returns all compilations in display order. A store that has never
// been written is an empty list; a store that fails to decode is an error.
func (l *Library) List() ([]types.Compilation, error) {
	list, err := l.storage.Load()
	if errors.Is(err, types.ErrNoData) {
		return []types.Compilation{}, nil
	}
	if err != nil {
		l.logger.Warn("failed to load compilations", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// Get returns the compilation with id.
func (l *Library) Get(id string) (types.Compilation, error) {
	list, err := l.List()
	if err != nil {
		return types.Compilation{}, err
	}
	c, ok := types.Find(list, id)
	if !ok {
		return types.Compilation{}, fmt.Errorf("compilation %s: %w", id, types.ErrNotFound)
	}
	return c, nil
}

// Create adds a new empty compilation at the front of the list.
func (l *Library) Create(name string) (types.Compilation, error) {
	c, err := types.NewCompilation(name)
	if err != nil {
		return types.Compilation{}, err
	}
	if err := l.persist(c); err != nil {
		return types.Compilation{}, err
	}
	l.logger.Info("created compilation", zap.String("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// Rename changes the name of compilation id and moves it to the front.
func (l *Library) Rename(id, name string) (types.Compilation, error) {
	return l.modify(id, func(c types.Compilation) (types.Compilation, error) {
		return c.Renamed(name)
	})
}

// Delete removes compilation id.
func (l *Library) Delete(id string) error {
	if err := l.storage.Delete(id); err != nil {
		return err
	}
	l.logger.Info("deleted compilation", zap.String("id", id))
	return nil
}

// AddText appends a text item named after its content. Blank text or text
// that is not valid UTF-8 returns ErrInvalidContent.
func (l *Library) AddText(id, text string) (types.Item, error) {
	if strings.TrimSpace(text) == "" || !utf8.ValidString(text) {
		return types.Item{}, types.ErrInvalidContent
	}
	item := types.NewItem(&text, types.TextContent(text))
	return item, l.appendItem(id, item)
}

// AddLink appends an unnamed link item. The URL is not checked beyond being
// non-blank UTF-8.
func (l *Library) AddLink(id, url string) (types.Item, error) {
	url = strings.TrimSpace(url)
	if url == "" || !utf8.ValidString(url) {
		return types.Item{}, types.ErrInvalidContent
	}
	item := types.NewItem(nil, types.LinkContent(url))
	return item, l.appendItem(id, item)
}

// AddImage appends an image item labelled "pictureN".
func (l *Library) AddImage(id string, data []byte) (types.Item, error) {
	if len(data) == 0 {
		return types.Item{}, types.ErrInvalidContent
	}
	var item types.Item
	_, err := l.modify(id, func(c types.Compilation) (types.Compilation, error) {
		name := types.NextPictureName(c.Items)
		item = types.NewItem(&name, types.ImageContent(data))
		return c.WithItem(item), nil
	})
	if err != nil {
		return types.Item{}, err
	}
	return item, nil
}

// EditLink replaces the name and URL of link item itemID, keeping its ID and
// position. An empty name clears it.
func (l *Library) EditLink(id, itemID, name, url string) (types.Item, error) {
	url = strings.TrimSpace(url)
	if url == "" || !utf8.ValidString(url) {
		return types.Item{}, types.ErrInvalidContent
	}
	if !utf8.ValidString(name) {
		return types.Item{}, fmt.Errorf("%w: not valid UTF-8", types.ErrInvalidName)
	}
	var edited types.Item
	_, err := l.modify(id, func(c types.Compilation) (types.Compilation, error) {
		idx := c.ItemIndex(itemID)
		if idx < 0 {
			return types.Compilation{}, fmt.Errorf("item %s: %w", itemID, types.ErrNotFound)
		}
		if c.Items[idx].Content.Kind() != types.KindLink {
			return types.Compilation{}, fmt.Errorf("item %s: %w", itemID, types.ErrNotLink)
		}
		edited = types.Item{ID: itemID, Content: types.LinkContent(url)}
		if name = strings.TrimSpace(name); name != "" {
			edited.Name = &name
		}
		return c.WithReplacedItem(edited)
	})
	if err != nil {
		return types.Item{}, err
	}
	return edited, nil
}

// RemoveItem deletes item itemID from compilation id.
func (l *Library) RemoveItem(id, itemID string) error {
	_, err := l.modify(id, func(c types.Compilation) (types.Compilation, error) {
		return c.WithoutItem(itemID)
	})
	return err
}

// Search returns compilations whose name contains query, ignoring case, in
// display order.
func (l *Library) Search(query string) ([]types.Compilation, error) {
	list, err := l.List()
	if err != nil {
		return nil, err
	}

	index, err := sqlite.NewIndex()
	if err != nil {
		return nil, err
	}
	defer index.Close()

	if err := index.Rebuild(list); err != nil {
		return nil, err
	}
	ids, err := index.Search(query)
	if err != nil {
		return nil, err
	}

	out := make([]types.Compilation, 0, len(ids))
	for _, id := range ids {
		if c, ok := types.Find(list, id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Stats returns item counts for every compilation in display order.
func (l *Library) Stats() ([]sqlite.Stats, error) {
	list, err := l.List()
	if err != nil {
		return nil, err
	}

	index, err := sqlite.NewIndex()
	if err != nil {
		return nil, err
	}
	defer index.Close()

	if err := index.Rebuild(list); err != nil {
		return nil, err
	}
	return index.Stats()
}

func (l *Library) appendItem(id string, item types.Item) error {
	_, err := l.modify(id, func(c types.Compilation) (types.Compilation, error) {
		return c.WithItem(item), nil
	})
	return err
}

// modify loads compilation id, applies fn, and upserts the result to the
// front of the list.
func (l *Library) modify(id string, fn func(types.Compilation) (types.Compilation, error)) (types.Compilation, error) {
	c, err := l.Get(id)
	if err != nil {
		return types.Compilation{}, err
	}
	updated, err := fn(c)
	if err != nil {
		return types.Compilation{}, err
	}
	if err := l.persist(updated); err != nil {
		return types.Compilation{}, err
	}
	l.logger.Debug("updated compilation",
		zap.String("id", updated.ID),
		zap.Int("items", len(updated.Items)))
	return updated, nil
}

func (l *Library) persist(c types.Compilation) error {
	if err := l.storage.Update(c); err != nil {
		l.logger.Warn("failed to save compilation", zap.String("id", c.ID), zap.Error(err))
		return err
	}
	return nil
}
