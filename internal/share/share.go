// Package share hands a single shared attachment (a URL, an image, or text)
// from another application into an existing compilation. It never creates
// compilations.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/compilations/pkg/types"
)

// DefaultClassifyTimeout bounds image classification when Handler.Timeout
// is zero.
const DefaultClassifyTimeout = 5 * time.Second

// Share errors.
var (
	ErrNoAttachment        = errors.New("nothing was shared")
	ErrAmbiguousAttachment = errors.New("more than one attachment kind was shared")
)

// Attachment is the payload of one share request. At most one field is set.
type Attachment struct {
	URL   string
	Text  string
	Image []byte
}

// Kind reports which content kind the attachment carries. A URL or text that
// is not valid UTF-8 returns types.ErrInvalidContent.
func (a Attachment) Kind() (types.ContentKind, error) {
	if !utf8.ValidString(a.URL) || !utf8.ValidString(a.Text) {
		return "", types.ErrInvalidContent
	}
	var kinds []types.ContentKind
	if strings.TrimSpace(a.URL) != "" {
		kinds = append(kinds, types.KindLink)
	}
	if len(a.Image) > 0 {
		kinds = append(kinds, types.KindImage)
	}
	if strings.TrimSpace(a.Text) != "" {
		kinds = append(kinds, types.KindText)
	}
	switch len(kinds) {
	case 0:
		return "", ErrNoAttachment
	case 1:
		return kinds[0], nil
	default:
		return "", ErrAmbiguousAttachment
	}
}

// Classifier labels an image. ok is false when there is no confident label.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (label string, ok bool, err error)
}

// NopClassifier never produces a label.
type NopClassifier struct{}

// Classify implements Classifier.
func (NopClassifier) Classify(context.Context, []byte) (string, bool, error) {
	return "", false, nil
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, image []byte) (string, bool, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ctx context.Context, image []byte) (string, bool, error) {
	return f(ctx, image)
}

// Handler appends shared attachments to compilations in a Storage.
type Handler struct {
	Storage    types.Storage
	Classifier Classifier
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Share appends att to compilation id and moves that compilation to the
// front of the list. It returns the appended item.
//
// Image items are labelled by the classifier. Classification is bounded by
// the handler timeout and by ctx; on error, no label, or timeout the item is
// labelled "pictureN" instead, so Share always completes.
func (h *Handler) Share(ctx context.Context, id string, att Attachment) (types.Item, error) {
	kind, err := att.Kind()
	if err != nil {
		return types.Item{}, err
	}

	list, err := h.Storage.Load()
	if errors.Is(err, types.ErrNoData) {
		return types.Item{}, fmt.Errorf("compilation %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		h.logger().Warn("failed to load compilations", zap.Error(err))
		return types.Item{}, err
	}
	target, ok := types.Find(list, id)
	if !ok {
		return types.Item{}, fmt.Errorf("compilation %s: %w", id, types.ErrNotFound)
	}

	var item types.Item
	switch kind {
	case types.KindLink:
		item = types.NewItem(nil, types.LinkContent(strings.TrimSpace(att.URL)))
	case types.KindText:
		text := att.Text
		item = types.NewItem(&text, types.TextContent(text))
	case types.KindImage:
		name := h.label(ctx, att.Image)
		if name == "" {
			name = types.NextPictureName(target.Items)
		}
		item = types.NewItem(&name, types.ImageContent(att.Image))
	}

	items := append(append([]types.Item{}, target.Items...), item)
	if err := h.Storage.Update(target.Updated(items)); err != nil {
		h.logger().Warn("failed to save shared item", zap.String("compilation", id), zap.Error(err))
		return types.Item{}, err
	}

	h.logger().Info("shared item",
		zap.String("compilation", id),
		zap.String("kind", string(kind)),
		zap.String("item", item.ID))
	return item, nil
}

// label runs the classifier under a timeout and returns its label, or ""
// when there is none.
func (h *Handler) label(ctx context.Context, img []byte) string {
	if h.Classifier == nil {
		return ""
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		label string
		ok    bool
		err   error
	}
	// Buffered so a classifier that ignores ctx can still finish and exit.
	done := make(chan result, 1)
	go func() {
		label, ok, err := h.Classifier.Classify(ctx, img)
		done <- result{label: label, ok: ok, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			h.logger().Warn("image classification failed", zap.Error(r.err))
			return ""
		}
		if !r.ok || !utf8.ValidString(r.label) {
			return ""
		}
		return strings.TrimSpace(r.label)
	case <-ctx.Done():
		h.logger().Warn("image classification timed out", zap.Duration("timeout", timeout))
		return ""
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
