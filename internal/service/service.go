// Package service is the command facade of the daemon. It maps the external
// operations onto the query engine, the content store and the platform
// collaborators.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/clipboard"
	"github.com/berrythewa/clipman-history/internal/metrics"
	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/query"
	"github.com/berrythewa/clipman-history/internal/storage"
	"github.com/berrythewa/clipman-history/internal/types"
)

// DefaultSettleDelay separates a clipboard write from the paste keystroke so
// the target application sees the new content.
const DefaultSettleDelay = 100 * time.Millisecond

// HotkeyStore persists the popup shortcut
type HotkeyStore interface {
	Hotkey() string
	SetHotkey(hotkey string) error
}

// Deps are the collaborators of a Service
type Deps struct {
	Store      *storage.BoltStorage
	Engine     *query.Engine
	Clipboard  platform.Clipboard
	Suppressor *clipboard.Suppressor
	Paster     platform.Paster
	Cursor     platform.CursorLocator
	Hotkeys    HotkeyStore
	Logger     *zap.Logger
}

// Options tunes a Service
type Options struct {
	Capacity    int
	SettleDelay time.Duration
}

type Service struct {
	store      *storage.BoltStorage
	engine     *query.Engine
	clipboard  platform.Clipboard
	suppressor *clipboard.Suppressor
	paster     platform.Paster
	cursor     platform.CursorLocator
	hotkeys    HotkeyStore
	opts       Options
	logger     *zap.Logger
}

func New(deps Deps, opts Options) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	return &Service{
		store:      deps.Store,
		engine:     deps.Engine,
		clipboard:  deps.Clipboard,
		suppressor: deps.Suppressor,
		paster:     deps.Paster,
		cursor:     deps.Cursor,
		hotkeys:    deps.Hotkeys,
		opts:       opts,
		logger:     logger,
	}
}

func (s *Service) ListHistory(limit int) ([]*types.ClipboardItem, error) {
	return s.engine.List(limit)
}

func (s *Service) SearchHistory(query string, limit int) ([]*types.ClipboardItem, error) {
	return s.engine.Search(query, limit)
}

func (s *Service) ListHistoryByDate(startTs, endTs int64, limit int) ([]*types.ClipboardItem, error) {
	return s.engine.ListByDate(startTs, endTs, limit)
}

func (s *Service) SearchHistoryByDate(query string, startTs, endTs int64, limit int) ([]*types.ClipboardItem, error) {
	return s.engine.SearchByDate(query, startTs, endTs, limit)
}

// SetClipboard restores an entry to the system clipboard. The write is
// guarded so the watcher does not record it as a new copy. Restoring what the
// clipboard already holds writes nothing.
func (s *Service) SetClipboard(ctx context.Context, id int64) error {
	entry, ok, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.Wrapf(types.ErrNotFound, "clipboard item %d", id)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	content := restoreContent(entry)

	// an unchanged clipboard raises no notification, so a mark armed here
	// would swallow the user's next real copy
	if current, err := s.clipboard.Read(); err == nil && current.Matches(content) {
		s.logger.Debug("Clipboard already holds item", zap.Int64("id", id))
		return nil
	}

	err = s.suppressor.Guard(func() error {
		return s.clipboard.Write(content)
	})
	if err != nil {
		if types.Code(err) == types.CodeInternal {
			err = types.Wrapf(types.ErrClipboardAccessDenied, "%v", err)
		}
		s.logger.Warn("Failed to restore clipboard item", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Restored clipboard item", zap.Int64("id", id), zap.String("format", string(entry.Format)))
	return nil
}

// SetClipboardAndPaste restores an entry and then injects the paste shortcut
func (s *Service) SetClipboardAndPaste(ctx context.Context, id int64) error {
	if err := s.SetClipboard(ctx, id); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.opts.SettleDelay):
	}

	if err := s.paster.Paste(ctx); err != nil {
		s.logger.Warn("Paste injection failed", zap.Int64("id", id), zap.Error(err))
		if types.Code(err) == types.CodeInternal {
			return types.Wrapf(types.ErrPasteInjectionUnavailable, "%v", err)
		}
		return err
	}
	return nil
}

// GetCursorPosition passes through to the platform cursor locator
func (s *Service) GetCursorPosition() (types.Point, error) {
	x, y, err := s.cursor.CursorPosition()
	if err != nil {
		return types.Point{}, err
	}
	return types.Point{X: x, Y: y}, nil
}

func (s *Service) GetHotkey() string {
	if hk := s.hotkeys.Hotkey(); hk != "" {
		return hk
	}
	return DefaultHotkey
}

func (s *Service) SetHotkey(hotkey string) error {
	canonical, err := ParseHotkey(hotkey)
	if err != nil {
		return err
	}
	if err := s.hotkeys.SetHotkey(canonical); err != nil {
		return err
	}
	s.logger.Info("Hotkey updated", zap.String("hotkey", canonical))
	return nil
}

// DeleteItem removes an entry on user request
func (s *Service) DeleteItem(id int64) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.engine.Forget(id)
	metrics.EntriesDeleted.Inc()
	s.logger.Info("Deleted clipboard item", zap.Int64("id", id))
	return nil
}

// PinItem protects an entry from eviction, or releases it
func (s *Service) PinItem(id int64, pinned bool) error {
	if err := s.store.SetPinned(id, pinned); err != nil {
		return err
	}
	s.logger.Info("Changed pin state", zap.Int64("id", id), zap.Bool("pinned", pinned))
	return nil
}

func (s *Service) Stats() (*types.Stats, error) {
	stats, err := s.store.Stats()
	if err != nil {
		return nil, err
	}
	stats.Capacity = s.opts.Capacity
	metrics.ActiveEntries.Set(float64(stats.Total))
	return stats, nil
}

// restoreContent picks what to put back on the clipboard: the image for image
// entries, the markup for html entries, otherwise the first populated of
// text, file path and color.
func restoreContent(e *storage.Entry) *platform.Content {
	switch e.Format {
	case types.FormatImage:
		return &platform.Content{Image: e.Image}
	case types.FormatHTML:
		if e.HTML != "" {
			return &platform.Content{HTML: e.HTML}
		}
		return &platform.Content{Text: e.Text}
	}
	switch {
	case e.Text != "":
		return &platform.Content{Text: e.Text}
	case e.FilePath != "":
		return &platform.Content{Text: e.FilePath}
	default:
		return &platform.Content{Text: e.Color}
	}
}
