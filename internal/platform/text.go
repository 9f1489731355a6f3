package platform

import (
	"context"
	"sync"
	"time"

	atotto "github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/types"
)

// textClipboard is the fallback backend built on atotto/clipboard. It only
// handles text and has no change notifications, so Watch polls.
type textClipboard struct {
	mu       sync.Mutex
	interval time.Duration
	logger   *zap.Logger
}

func newTextClipboard(interval time.Duration, logger *zap.Logger) *textClipboard {
	return &textClipboard{interval: interval, logger: logger}
}

func (c *textClipboard) Read() (*Content, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if atotto.Unsupported {
		return nil, types.Wrapf(types.ErrClipboardAccessDenied, "no clipboard utility available")
	}
	text, err := atotto.ReadAll()
	if err != nil {
		return nil, types.Wrapf(types.ErrClipboardAccessDenied, "read: %v", err)
	}
	return &Content{Text: text}, nil
}

func (c *textClipboard) Write(content *Content) error {
	if content.Empty() {
		return types.Wrapf(types.ErrInvalidArgument, "nothing to write")
	}
	if len(content.Image) > 0 {
		return types.Wrapf(types.ErrClipboardAccessDenied, "text-only clipboard cannot hold images")
	}
	text := content.Text
	if text == "" {
		text = content.HTML
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := atotto.WriteAll(text); err != nil {
		return types.Wrapf(types.ErrClipboardAccessDenied, "write: %v", err)
	}
	return nil
}

func (c *textClipboard) Watch(ctx context.Context) (<-chan *Content, error) {
	if atotto.Unsupported {
		return nil, types.Wrapf(types.ErrClipboardAccessDenied, "no clipboard utility available")
	}

	out := make(chan *Content, 16)
	go func() {
		defer close(out)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		var last string
		if current, err := c.Read(); err == nil {
			last = current.Text
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			current, err := c.Read()
			if err != nil {
				c.logger.Debug("Clipboard poll failed", zap.Error(err))
				continue
			}
			if current.Text == "" || current.Text == last {
				continue
			}
			last = current.Text
			select {
			case out <- current:
			case <-ctx.Done():
				return
			}
		}
	}()

	c.logger.Debug("Polling text clipboard", zap.Duration("interval", c.interval))
	return out, nil
}
