package format

import (
	"fmt"
	"strings"

	"github.com/berrythewa/clipman-history/internal/types"
)

// Formatter renders history items for the terminal
type Formatter struct {
	options Options
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{
		options: opts,
	}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatItem formats a single history item
func (f *Formatter) FormatItem(item *types.ClipboardItem) string {
	if item == nil {
		return ColorizeIf("No content", Gray, f.options.UseColors)
	}

	header := f.formatHeader(item)
	if f.options.Compact {
		return header + " " + DimIf(Preview(item, 50), f.options.UseColors)
	}

	parts := []string{header}
	if f.options.ShowMetadata {
		parts = append(parts, f.formatMetadata(item))
	}
	if body := f.formatBody(item); body != "" {
		parts = append(parts, CreateBox("Content", body, f.options))
	}
	return strings.Join(parts, "\n")
}

// FormatItemList formats items in the order given, which for history
// results is most recent first
func (f *Formatter) FormatItemList(items []*types.ClipboardItem) string {
	if len(items) == 0 {
		return ColorizeIf("No clipboard history", Gray, f.options.UseColors)
	}

	title := fmt.Sprintf("📋 Clipboard History (%d entries)", len(items))
	parts := []string{ColorizeIf(title, BrightBlue, f.options.UseColors), ""}

	for i, item := range items {
		if f.options.Compact {
			parts = append(parts, f.FormatItem(item))
			continue
		}
		parts = append(parts, f.FormatItem(item))
		if i < len(items)-1 {
			parts = append(parts, CreateSeparator(f.options))
		}
	}
	return strings.Join(parts, "\n")
}

// FormatStats formats store statistics
func (f *Formatter) FormatStats(stats *types.Stats) string {
	return FormatStats(stats, f.options)
}

// formatHeader renders "#id icon format[/category] [pinned]"
func (f *Formatter) formatHeader(item *types.ClipboardItem) string {
	var parts []string

	parts = append(parts, BoldIf(fmt.Sprintf("#%d", item.ID), f.options.UseColors))

	if f.options.UseIcons {
		icon := FormatIcons[item.Format]
		if item.Category == types.CategoryLink {
			icon = LinkIcon
		}
		if icon != "" {
			parts = append(parts, icon)
		}
	}

	label := string(item.Format)
	if item.Category == types.CategoryLink {
		label += "/link"
	}
	parts = append(parts, ColorizeIf(label, FormatColors[item.Format], f.options.UseColors))

	if item.Pinned {
		parts = append(parts, ColorizeIf("[pinned]", Yellow, f.options.UseColors))
	}
	return strings.Join(parts, " ")
}

func (f *Formatter) formatMetadata(item *types.ClipboardItem) string {
	parts := []string{
		fmt.Sprintf("Created: %s", FormatRelativeTime(item.Created())),
		fmt.Sprintf("Size: %s", FormatSize(PayloadSize(item))),
	}
	if item.Format == types.FormatImage && item.ImageWidth > 0 {
		parts = append(parts, fmt.Sprintf("Dimensions: %dx%d", item.ImageWidth, item.ImageHeight))
	}
	return DimIf(strings.Join(parts, " • "), f.options.UseColors)
}

func (f *Formatter) formatBody(item *types.ClipboardItem) string {
	switch item.Format {
	case types.FormatImage:
		return FormatImage(item)
	case types.FormatFile:
		return FormatFile(item)
	case types.FormatColor:
		return FormatColor(item, f.options)
	}
	if item.Category == types.CategoryLink {
		return FormatURL(item, f.options)
	}
	return FormatText(item.TextualValue(), f.options)
}

// Preview is a single-line summary of an item
func Preview(item *types.ClipboardItem, maxLen int) string {
	switch item.Format {
	case types.FormatImage:
		return FormatImagePreview(item)
	case types.FormatFile:
		return TruncateText(item.FilePath, maxLen)
	}
	text := item.TextualValue()
	if text == "" {
		return "(empty)"
	}
	return FormatTextPreview(text, maxLen)
}

// FormatItem formats a single item with given options
func FormatItem(item *types.ClipboardItem, opts Options) string {
	return New(opts).FormatItem(item)
}

// FormatItemList formats items with given options
func FormatItemList(items []*types.ClipboardItem, opts Options) string {
	return New(opts).FormatItemList(items)
}
