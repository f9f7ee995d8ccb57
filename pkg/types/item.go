package types

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding for ImageContent input
	_ "image/jpeg" // register JPEG decoding for ImageContent input
	"image/png"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContentKind is the discriminator written to the "type" field of an item's
// content object.
type ContentKind string

// Content kinds. No other value is accepted on decode.
const (
	KindLink  ContentKind = "link"
	KindImage ContentKind = "image"
	KindText  ContentKind = "text"
)

// ItemData is the content carried by an Item. It is a closed set: Link,
// Image, and Text are the only implementations.
type ItemData interface {
	Kind() ContentKind
	isItemData()
}

// Link is a URL string. It is not validated at write time.
type Link struct {
	URL string
}

// Image holds encoded image bytes. Bytes produced by decoding are always PNG;
// other registered formats are converted on both encode and decode.
type Image struct {
	Data []byte
}

// Text is free text.
type Text struct {
	Body string
}

func (Link) Kind() ContentKind  { return KindLink }
func (Image) Kind() ContentKind { return KindImage }
func (Text) Kind() ContentKind  { return KindText }

func (Link) isItemData()  {}
func (Image) isItemData() {}
func (Text) isItemData()  {}

// LinkContent returns link content for url.
func LinkContent(url string) ItemData { return Link{URL: url} }

// TextContent returns text content for body.
func TextContent(body string) ItemData { return Text{Body: body} }

// ImageContent returns image content for data. The bytes may be in any
// registered image format; they are normalised to PNG when encoded.
func ImageContent(data []byte) ItemData { return Image{Data: data} }

// Item is one unit of content within a Compilation.
type Item struct {
	// ID is a UUID v7, generated on creation.
	ID string

	// Name is the optional display label. Links usually have none.
	Name *string

	// Content is the tagged-union payload.
	Content ItemData
}

// NewItem creates an item with a fresh ID.
func NewItem(name *string, content ItemData) Item {
	return Item{
		ID:      newUUID(),
		Name:    name,
		Content: content,
	}
}

// DisplayName returns the item label. A link without a name falls back to
// its URL; other unnamed items return the empty string.
func (i Item) DisplayName() string {
	if i.Name != nil {
		return *i.Name
	}
	if l, ok := i.Content.(Link); ok {
		return l.URL
	}
	return ""
}

// itemJSON is the persisted shape of an Item.
type itemJSON struct {
	ID      string          `json:"id"`
	Name    *string         `json:"name,omitempty"`
	Content json.RawMessage `json:"content"`
}

// contentJSON is the persisted shape of ItemData.
type contentJSON struct {
	Type  ContentKind     `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the item with its content as a {"type","value"} object.
// An empty ID or a name that is not valid UTF-8 yields ErrCorruptData.
func (i Item) MarshalJSON() ([]byte, error) {
	if i.ID == "" {
		return nil, fmt.Errorf("%w: item without id", ErrCorruptData)
	}
	if i.Name != nil && !utf8.ValidString(*i.Name) {
		return nil, fmt.Errorf("%w: item %s name is not valid UTF-8", ErrCorruptData, i.ID)
	}
	content, err := MarshalContent(i.Content)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", i.ID, err)
	}
	return json.Marshal(itemJSON{
		ID:      i.ID,
		Name:    i.Name,
		Content: content,
	})
}

// UnmarshalJSON decodes an item, validating its id, content tag and payload.
func (i *Item) UnmarshalJSON(data []byte) error {
	var aux itemJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ID == "" {
		return fmt.Errorf("%w: item without id", ErrCorruptData)
	}
	content, err := UnmarshalContent(aux.Content)
	if err != nil {
		return fmt.Errorf("item %s: %w", aux.ID, err)
	}
	*i = Item{
		ID:      aux.ID,
		Name:    aux.Name,
		Content: content,
	}
	return nil
}

// MarshalContent encodes d as {"type": kind, "value": payload}. Image bytes
// are converted to PNG and base64 encoded. Bytes that are not a decodable
// image, and link or text strings that are not valid UTF-8, yield
// ErrCorruptData.
func MarshalContent(d ItemData) ([]byte, error) {
	var (
		kind  ContentKind
		value any
	)
	switch v := d.(type) {
	case Link:
		if !utf8.ValidString(v.URL) {
			return nil, fmt.Errorf("%w: link is not valid UTF-8", ErrCorruptData)
		}
		kind, value = KindLink, v.URL
	case Text:
		if !utf8.ValidString(v.Body) {
			return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrCorruptData)
		}
		kind, value = KindText, v.Body
	case Image:
		encoded, err := toPNG(v.Data)
		if err != nil {
			return nil, err
		}
		kind, value = KindImage, base64.StdEncoding.EncodeToString(encoded)
	case nil:
		return nil, fmt.Errorf("%w: missing content", ErrCorruptData)
	default:
		return nil, fmt.Errorf("%w: unsupported content %T", ErrCorruptData, d)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(contentJSON{Type: kind, Value: raw})
}

// UnmarshalContent decodes a {"type","value"} object. An unknown type, a
// value of the wrong shape, or an image payload that is not valid base64 of
// a loadable image yields ErrCorruptData. Images come back as PNG.
func UnmarshalContent(data []byte) (ItemData, error) {
	var aux contentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	var s string
	if err := json.Unmarshal(aux.Value, &s); err != nil {
		return nil, fmt.Errorf("%w: %s value: %v", ErrCorruptData, aux.Type, err)
	}

	switch aux.Type {
	case KindLink:
		return Link{URL: s}, nil
	case KindText:
		return Text{Body: s}, nil
	case KindImage:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: image base64: %v", ErrCorruptData, err)
		}
		encoded, err := toPNG(b)
		if err != nil {
			return nil, err
		}
		return Image{Data: encoded}, nil
	default:
		return nil, fmt.Errorf("%w: unknown content type %q", ErrCorruptData, aux.Type)
	}
}

// toPNG validates data as an image and returns it PNG encoded. PNG input is
// returned unchanged.
func toPNG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: image bytes: %v", ErrCorruptData, err)
	}
	if format == "png" {
		return data, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// SameImage reports whether a and b decode to the same pixels.
func SameImage(a, b []byte) bool {
	ia, _, err := image.Decode(bytes.NewReader(a))
	if err != nil {
		return false
	}
	ib, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return false
	}
	ra, rb := ia.Bounds(), ib.Bounds()
	if ra.Dx() != rb.Dx() || ra.Dy() != rb.Dy() {
		return false
	}
	for y := 0; y < ra.Dy(); y++ {
		for x := 0; x < ra.Dx(); x++ {
			r1, g1, b1, a1 := ia.At(ra.Min.X+x, ra.Min.Y+y).RGBA()
			r2, g2, b2, a2 := ib.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}

// newUUID returns a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
