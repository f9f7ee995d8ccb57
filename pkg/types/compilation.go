package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Compilation is a named, ordered collection of items. Two compilations are
// the same compilation when their IDs match, whatever their contents.
type Compilation struct {
	// ID is a UUID v7, assigned at creation and never changed.
	ID string `json:"id"`

	// Name is the display name. Not unique.
	Name string `json:"name"`

	// Items in display order.
	Items []Item `json:"items"`
}

// NewCompilation creates an empty compilation with a fresh ID. The name is
// trimmed; an empty result or invalid UTF-8 returns ErrInvalidName.
func NewCompilation(name string) (Compilation, error) {
	name, err := cleanName(name)
	if err != nil {
		return Compilation{}, err
	}
	return Compilation{
		ID:    newUUID(),
		Name:  name,
		Items: []Item{},
	}, nil
}

// Is reports whether c and other have the same identity.
func (c Compilation) Is(other Compilation) bool {
	return c.ID == other.ID
}

// Updated returns a copy of c with the same ID and name and the given items.
// The items slice is copied so later changes to it do not leak into the
// returned value.
func (c Compilation) Updated(items []Item) Compilation {
	cp := make([]Item, len(items))
	copy(cp, items)
	return Compilation{
		ID:    c.ID,
		Name:  c.Name,
		Items: cp,
	}
}

// Renamed returns a copy of c with a new trimmed name. An empty name or
// invalid UTF-8 returns ErrInvalidName.
func (c Compilation) Renamed(name string) (Compilation, error) {
	name, err := cleanName(name)
	if err != nil {
		return Compilation{}, err
	}
	out := c.Updated(c.Items)
	out.Name = name
	return out, nil
}

// cleanName trims name and checks it can be stored without loss.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrInvalidName)
	}
	return name, nil
}

// WithItem returns a copy of c with item appended.
func (c Compilation) WithItem(item Item) Compilation {
	items := make([]Item, 0, len(c.Items)+1)
	items = append(items, c.Items...)
	items = append(items, item)
	return c.Updated(items)
}

// WithoutItem returns a copy of c without the item whose ID is itemID.
// Returns ErrNotFound if there is no such item.
func (c Compilation) WithoutItem(itemID string) (Compilation, error) {
	idx := c.ItemIndex(itemID)
	if idx < 0 {
		return Compilation{}, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	items := make([]Item, 0, len(c.Items)-1)
	items = append(items, c.Items[:idx]...)
	items = append(items, c.Items[idx+1:]...)
	return c.Updated(items), nil
}

// WithReplacedItem returns a copy of c where the item with item.ID is
// replaced in place. Returns ErrNotFound if there is no such item.
func (c Compilation) WithReplacedItem(item Item) (Compilation, error) {
	idx := c.ItemIndex(item.ID)
	if idx < 0 {
		return Compilation{}, fmt.Errorf("item %s: %w", item.ID, ErrNotFound)
	}
	out := c.Updated(c.Items)
	out.Items[idx] = item
	return out, nil
}

// ItemIndex returns the position of the item with itemID, or -1.
func (c Compilation) ItemIndex(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// NextPictureName returns the label for the next image added to items:
// "pictureN" where N is one more than the number of images already present.
func NextPictureName(items []Item) string {
	n := 0
	for _, it := range items {
		if it.Content != nil && it.Content.Kind() == KindImage {
			n++
		}
	}
	return fmt.Sprintf("picture%d", n+1)
}

// MarshalJSON writes a nil item list as an empty array so readers that
// require the field always find one. An empty ID or a name that is not valid
// UTF-8 yields ErrCorruptData, since neither would load back unchanged.
func (c Compilation) MarshalJSON() ([]byte, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("%w: compilation without id", ErrCorruptData)
	}
	if !utf8.ValidString(c.Name) {
		return nil, fmt.Errorf("%w: compilation %s name is not valid UTF-8", ErrCorruptData, c.ID)
	}
	type alias Compilation
	a := alias(c)
	if a.Items == nil {
		a.Items = []Item{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON decodes a compilation. A missing or empty id yields
// ErrCorruptData.
func (c *Compilation) UnmarshalJSON(data []byte) error {
	type alias Compilation
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.ID == "" {
		return fmt.Errorf("%w: compilation without id", ErrCorruptData)
	}
	*c = Compilation(a)
	return nil
}

// Equal reports structural equality of a and b: same ID, name, and items in
// the same order. Image items compare by decoded pixels, not raw bytes.
func Equal(a, b Compilation) bool {
	if a.ID != b.ID || a.Name != b.Name || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !EqualItems(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

// EqualItems reports structural equality of two items.
func EqualItems(a, b Item) bool {
	if a.ID != b.ID {
		return false
	}
	if (a.Name == nil) != (b.Name == nil) {
		return false
	}
	if a.Name != nil && *a.Name != *b.Name {
		return false
	}
	switch ca := a.Content.(type) {
	case Link:
		cb, ok := b.Content.(Link)
		return ok && ca.URL == cb.URL
	case Text:
		cb, ok := b.Content.(Text)
		return ok && ca.Body == cb.Body
	case Image:
		cb, ok := b.Content.(Image)
		return ok && SameImage(ca.Data, cb.Data)
	default:
		return a.Content == nil && b.Content == nil
	}
}

// Upserted returns list with any compilation sharing c's ID removed and c
// inserted at the front. Relative order of the other entries is kept.
func Upserted(list []Compilation, c Compilation) []Compilation {
	out := make([]Compilation, 0, len(list)+1)
	out = append(out, c)
	for _, existing := range list {
		if existing.Is(c) {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// Find returns the compilation with id from list.
func Find(list []Compilation, id string) (Compilation, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Compilation{}, false
}
