// Package platform wraps the operating system collaborators the daemon
// depends on: the system clipboard, paste injection and the cursor position.
package platform

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"
)

// Content is one snapshot of the system clipboard. At most one of Text and
// Image is normally populated; HTML accompanies Text when the source offered it.
type Content struct {
	Text  string
	HTML  string
	Image []byte // PNG
}

// Empty reports whether the snapshot carries no payload
func (c *Content) Empty() bool {
	return c == nil || (c.Text == "" && c.HTML == "" && len(c.Image) == 0)
}

// Matches reports whether writing other would leave the clipboard unchanged.
// HTML is compared as text since backends without an HTML target write it
// that way.
func (c *Content) Matches(other *Content) bool {
	if c.Empty() || other.Empty() {
		return false
	}
	if len(c.Image) > 0 || len(other.Image) > 0 {
		return bytes.Equal(c.Image, other.Image)
	}
	return c.textual() == other.textual()
}

func (c *Content) textual() string {
	if c.Text != "" {
		return c.Text
	}
	return c.HTML
}

// Size returns the payload size in bytes
func (c *Content) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Text) + len(c.HTML) + len(c.Image)
}

// Clipboard is the system clipboard
type Clipboard interface {
	// Read returns the current clipboard content
	Read() (*Content, error)

	// Write replaces the clipboard content
	Write(*Content) error

	// Watch delivers a snapshot for every clipboard change until ctx is done
	Watch(ctx context.Context) (<-chan *Content, error)
}

// Paster injects the platform paste shortcut into the focused window
type Paster interface {
	Paste(ctx context.Context) error
}

// CursorLocator reports the mouse position in screen coordinates
type CursorLocator interface {
	CursorPosition() (x, y int, err error)
}

// ClipboardOptions configures NewClipboard
type ClipboardOptions struct {
	// PollInterval is used by backends without change notifications
	PollInterval time.Duration
	Logger       *zap.Logger
}

// NewClipboard returns the native clipboard, or a text-only fallback when the
// native backend cannot be initialized (for example without a display).
func NewClipboard(opts ClipboardOptions) Clipboard {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}

	native, err := newDesignClipboard(logger)
	if err == nil {
		return native
	}
	logger.Warn("Native clipboard unavailable, falling back to text-only clipboard", zap.Error(err))
	return newTextClipboard(opts.PollInterval, logger)
}
