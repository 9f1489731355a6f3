// Package query serves ordered, filtered reads over the history store.
//
// Listing walks the recency index backwards and stops as soon as limit
// entries are collected. Search applies a case-folded substring match to each
// entry in range, so it scans every entry within the date bound.
package query

import (
	"encoding/base64"
	"math"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/berrythewa/clipman-history/internal/metrics"
	"github.com/berrythewa/clipman-history/internal/storage"
	"github.com/berrythewa/clipman-history/internal/types"
)

const (
	DefaultLimit          = 200
	MaxLimit              = 1000
	DefaultImageCacheSize = 64
)

// Options configures an Engine
type Options struct {
	DefaultLimit   int
	MaxLimit       int
	ImageCacheSize int
}

// Engine answers list and search queries. It never mutates the store.
type Engine struct {
	store  *storage.BoltStorage
	images *lru.Cache[int64, string]
	opts   Options
	logger *zap.Logger
}

func NewEngine(store *storage.BoltStorage, opts Options, logger *zap.Logger) (*Engine, error) {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxLimit
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if opts.ImageCacheSize <= 0 {
		opts.ImageCacheSize = DefaultImageCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	images, err := lru.New[int64, string](opts.ImageCacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{store: store, images: images, opts: opts, logger: logger}, nil
}

// List returns the most recent entries
func (e *Engine) List(limit int) ([]*types.ClipboardItem, error) {
	return e.run("list", "", math.MinInt64, math.MaxInt64, limit)
}

// Search returns the most recent entries whose textual payload contains query,
// ignoring case. An empty query behaves like List.
func (e *Engine) Search(query string, limit int) ([]*types.ClipboardItem, error) {
	return e.run("search", query, math.MinInt64, math.MaxInt64, limit)
}

// ListByDate is List restricted to createdAt in [startTs, endTs]
func (e *Engine) ListByDate(startTs, endTs int64, limit int) ([]*types.ClipboardItem, error) {
	return e.run("list_by_date", "", startTs, endTs, limit)
}

// SearchByDate is Search restricted to createdAt in [startTs, endTs]
func (e *Engine) SearchByDate(query string, startTs, endTs int64, limit int) ([]*types.ClipboardItem, error) {
	return e.run("search_by_date", query, startTs, endTs, limit)
}

// NormalizeLimit maps a missing or non-positive limit to the default and
// clamps the rest to the configured maximum.
func (e *Engine) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return e.opts.DefaultLimit
	}
	if limit > e.opts.MaxLimit {
		return e.opts.MaxLimit
	}
	return limit
}

// Forget drops cached state for an entry that no longer exists
func (e *Engine) Forget(id int64) {
	e.images.Remove(id)
}

func (e *Engine) run(kind, query string, start, end int64, limit int) ([]*types.ClipboardItem, error) {
	started := time.Now()
	defer func() {
		metrics.QueryDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	}()

	limit = e.NormalizeLimit(limit)
	match := matcher(strings.TrimSpace(query))

	items := make([]*types.ClipboardItem, 0)
	err := e.store.View(func(tx *storage.Tx) error {
		return tx.Scan(start, end, func(entry *storage.Entry) bool {
			if match != nil && !match(entry) {
				return true
			}
			items = append(items, entry.Item(e.imageBase64(entry)))
			return len(items) < limit
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Query served",
		zap.String("kind", kind),
		zap.Int("limit", limit),
		zap.Int("results", len(items)),
		zap.Duration("took", time.Since(started)))
	return items, nil
}

// matcher returns nil for an empty query, meaning every entry matches
func matcher(query string) func(*storage.Entry) bool {
	if query == "" {
		return nil
	}
	folder := cases.Fold()
	needle := folder.String(query)
	return func(entry *storage.Entry) bool {
		text := entry.TextualValue()
		if text == "" {
			return false
		}
		return strings.Contains(folder.String(text), needle)
	}
}

func (e *Engine) imageBase64(entry *storage.Entry) string {
	if entry.Format != types.FormatImage || len(entry.Image) == 0 {
		return ""
	}
	if enc, ok := e.images.Get(entry.ID); ok {
		metrics.ImageCacheHits.Inc()
		return enc
	}
	metrics.ImageCacheMisses.Inc()
	enc := base64.StdEncoding.EncodeToString(entry.Image)
	e.images.Add(entry.ID, enc)
	return enc
}
