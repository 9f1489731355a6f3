package clipboard

import (
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/types"
)

type ContentFilter func(*types.NewItem) bool
type ContentTransformer func(*types.NewItem) *types.NewItem

// ContentProcessor classifies snapshots and applies filters and transformations
type ContentProcessor struct {
	filters      []ContentFilter
	transformers []ContentTransformer
	logger       *zap.Logger
	MaxSizeBytes int64
}

// NewContentProcessor creates a new content processor
func NewContentProcessor(maxSizeBytes int64, logger *zap.Logger) *ContentProcessor {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 100 * 1024 * 1024 // 100MB default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentProcessor{
		MaxSizeBytes: maxSizeBytes,
		logger:       logger,
	}
}

func (cp *ContentProcessor) AddFilter(filter ContentFilter) {
	cp.filters = append(cp.filters, filter)
}

func (cp *ContentProcessor) AddTransformer(transformer ContentTransformer) {
	cp.transformers = append(cp.transformers, transformer)
}

// Process classifies a snapshot and runs it through the pipeline. A nil
// result means the snapshot is not recorded.
func (cp *ContentProcessor) Process(content *platform.Content, createdAt int64) *types.NewItem {
	if size := int64(content.Size()); size > cp.MaxSizeBytes {
		cp.logger.Debug("Content exceeds maximum size",
			zap.Int64("max_size_bytes", cp.MaxSizeBytes),
			zap.Int64("content_size_bytes", size))
		return nil
	}

	item := Classify(content, createdAt)
	if item == nil {
		return nil
	}

	for _, transformer := range cp.transformers {
		item = transformer(item)
		if item == nil {
			return nil
		}
	}

	for _, filter := range cp.filters {
		if !filter(item) {
			return nil
		}
	}

	return item
}

// FormatFilter creates a filter that only admits the given formats
func FormatFilter(formats ...types.Format) ContentFilter {
	allowed := make(map[types.Format]bool, len(formats))
	for _, f := range formats {
		allowed[f] = true
	}
	return func(item *types.NewItem) bool {
		return allowed[item.Format]
	}
}
