package platform

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/berrythewa/clipman-history/internal/types"
)

// designClipboard uses golang.design/x/clipboard, which supports UTF-8 text
// and PNG images and delivers change notifications natively.
type designClipboard struct {
	mu     sync.Mutex
	logger *zap.Logger
}

func newDesignClipboard(logger *zap.Logger) (*designClipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, types.Wrapf(types.ErrClipboardAccessDenied, "init: %v", err)
	}
	return &designClipboard{logger: logger}, nil
}

func (c *designClipboard) Read() (*Content, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		return &Content{Text: string(text)}, nil
	}
	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		return &Content{Image: img}, nil
	}
	return &Content{}, nil
}

func (c *designClipboard) Write(content *Content) error {
	if content.Empty() {
		return types.Wrapf(types.ErrInvalidArgument, "nothing to write")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The library has no HTML target; the text flavor carries the markup.
	switch {
	case len(content.Image) > 0:
		clipboard.Write(clipboard.FmtImage, content.Image)
	case content.Text != "":
		clipboard.Write(clipboard.FmtText, []byte(content.Text))
	default:
		clipboard.Write(clipboard.FmtText, []byte(content.HTML))
	}
	return nil
}

func (c *designClipboard) Watch(ctx context.Context) (<-chan *Content, error) {
	texts := clipboard.Watch(ctx, clipboard.FmtText)
	images := clipboard.Watch(ctx, clipboard.FmtImage)

	out := make(chan *Content, 16)
	go func() {
		defer close(out)
		for texts != nil || images != nil {
			var content *Content
			select {
			case <-ctx.Done():
				return
			case data, ok := <-texts:
				if !ok {
					texts = nil
					continue
				}
				content = &Content{Text: string(data)}
			case data, ok := <-images:
				if !ok {
					images = nil
					continue
				}
				content = &Content{Image: data}
			}
			if content.Empty() {
				continue
			}
			select {
			case out <- content:
			case <-ctx.Done():
				return
			}
		}
	}()

	c.logger.Debug("Watching native clipboard")
	return out, nil
}
