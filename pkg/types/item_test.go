package types

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPNG returns a small PNG with a distinct colour per pixel.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }

func TestMarshalContentShape(t *testing.T) {
	tests := []struct {
		name     string
		content  ItemData
		wantType string
		wantVal  string
	}{
		{name: "link", content: LinkContent("https://example.com"), wantType: "link", wantVal: "https://example.com"},
		{name: "text", content: TextContent("hello"), wantType: "text", wantVal: "hello"},
		{name: "empty text", content: TextContent(""), wantType: "text", wantVal: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalContent(tt.content)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Len(t, got, 2)
			assert.Equal(t, tt.wantType, got["type"])
			assert.Equal(t, tt.wantVal, got["value"])
		})
	}
}

func TestMarshalContentImageIsBase64PNG(t *testing.T) {
	raw := testPNG(t)

	data, err := MarshalContent(ImageContent(raw))
	require.NoError(t, err)

	var got struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "image", got.Type)

	decoded, err := base64.StdEncoding.DecodeString(got.Value)
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(decoded))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestMarshalContentConvertsToPNG(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	pal.SetColorIndex(1, 1, 1)
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, pal, nil))

	data, err := MarshalContent(ImageContent(buf.Bytes()))
	require.NoError(t, err)

	got, err := UnmarshalContent(data)
	require.NoError(t, err)
	img, ok := got.(Image)
	require.True(t, ok)

	_, format, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.True(t, SameImage(buf.Bytes(), img.Data))
}

func TestMarshalContentRejectsBadImage(t *testing.T) {
	_, err := MarshalContent(ImageContent([]byte("not an image")))
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestMarshalContentRejectsInvalidUTF8(t *testing.T) {
	for _, d := range []ItemData{TextContent("caf\xe9"), LinkContent("https://a/\xff")} {
		_, err := MarshalContent(d)
		assert.ErrorIs(t, err, ErrCorruptData, "%T", d)
	}
}

func TestItemMarshalRejectsInvalidName(t *testing.T) {
	_, err := json.Marshal(Item{ID: "a", Name: strPtr("\xff"), Content: TextContent("x")})
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestMarshalContentRejectsNil(t *testing.T) {
	_, err := MarshalContent(nil)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestUnmarshalContentErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bogus type", input: `{"type":"bogus","value":"x"}`},
		{name: "missing type", input: `{"value":"x"}`},
		{name: "missing value", input: `{"type":"text"}`},
		{name: "non-string link value", input: `{"type":"link","value":42}`},
		{name: "image not base64", input: `{"type":"image","value":"***"}`},
		{name: "image base64 of garbage", input: `{"type":"image","value":"` + base64.StdEncoding.EncodeToString([]byte("garbage")) + `"}`},
		{name: "not an object", input: `"link"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalContent([]byte(tt.input))
			assert.ErrorIs(t, err, ErrCorruptData)
			assert.Nil(t, got)
		})
	}
}

func TestUnmarshalContentNormalisesImageToPNG(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{color.Black, color.White})
	pal.SetColorIndex(2, 1, 1)
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, pal, nil))

	input := `{"type":"image","value":"` + base64.StdEncoding.EncodeToString(buf.Bytes()) + `"}`
	got, err := UnmarshalContent([]byte(input))
	require.NoError(t, err)
	img, ok := got.(Image)
	require.True(t, ok)

	_, format, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.True(t, SameImage(buf.Bytes(), img.Data))
}

func TestUnmarshalContentVariants(t *testing.T) {
	got, err := UnmarshalContent([]byte(`{"type":"link","value":"https://a.b"}`))
	require.NoError(t, err)
	assert.Equal(t, Link{URL: "https://a.b"}, got)

	got, err = UnmarshalContent([]byte(`{"type":"text","value":"note"}`))
	require.NoError(t, err)
	assert.Equal(t, Text{Body: "note"}, got)
}

func TestItemJSONRoundTrip(t *testing.T) {
	items := []Item{
		NewItem(nil, LinkContent("https://example.com/a")),
		NewItem(strPtr("remember milk"), TextContent("remember milk")),
		NewItem(strPtr("picture1"), ImageContent(testPNG(t))),
	}

	for _, it := range items {
		t.Run(string(it.Content.Kind()), func(t *testing.T) {
			data, err := json.Marshal(it)
			require.NoError(t, err)

			var got Item
			require.NoError(t, json.Unmarshal(data, &got))
			assert.True(t, EqualItems(it, got), "round trip mismatch: %s", data)
		})
	}
}

func TestItemJSONOmitsNilName(t *testing.T) {
	it := NewItem(nil, LinkContent("https://example.com"))
	data, err := json.Marshal(it)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &got))
	_, hasName := got["name"]
	assert.False(t, hasName)
	assert.Contains(t, got, "id")
	assert.Contains(t, got, "content")
}

func TestItemUnmarshalBogusContent(t *testing.T) {
	var it Item
	err := json.Unmarshal([]byte(`{"id":"1","content":{"type":"bogus","value":"x"}}`), &it)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestItemUnmarshalMissingID(t *testing.T) {
	for _, input := range []string{
		`{"content":{"type":"text","value":"x"}}`,
		`{"id":"","content":{"type":"text","value":"x"}}`,
	} {
		var it Item
		assert.ErrorIs(t, json.Unmarshal([]byte(input), &it), ErrCorruptData, input)
	}
}

func TestItemDisplayName(t *testing.T) {
	assert.Equal(t, "https://x.y", NewItem(nil, LinkContent("https://x.y")).DisplayName())
	assert.Equal(t, "Docs", NewItem(strPtr("Docs"), LinkContent("https://x.y")).DisplayName())
	assert.Equal(t, "hi", NewItem(strPtr("hi"), TextContent("hi")).DisplayName())
	assert.Equal(t, "", NewItem(nil, TextContent("hi")).DisplayName())
}

func TestSameImage(t *testing.T) {
	a := testPNG(t)
	assert.True(t, SameImage(a, a))

	other := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, other))
	assert.False(t, SameImage(a, buf.Bytes()))
	assert.False(t, SameImage(a, []byte("nope")))
}

func TestNewItemAssignsUniqueIDs(t *testing.T) {
	a := NewItem(nil, TextContent("a"))
	b := NewItem(nil, TextContent("a"))
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
