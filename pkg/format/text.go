package format

import (
	"strings"

	"github.com/berrythewa/clipman-history/internal/types"
)

// FormatText applies the line and width limits to text
func FormatText(text string, opts Options) string {
	if opts.MaxLines > 0 {
		text = TruncateLines(text, opts.MaxLines)
	}
	if opts.MaxWidth > 0 {
		text = truncateEachLine(text, opts.MaxWidth)
	}
	return text
}

// FormatTextPreview flattens text onto one line and truncates it
func FormatTextPreview(text string, maxLen int) string {
	preview := strings.ReplaceAll(text, "\r\n", " ")
	preview = strings.ReplaceAll(preview, "\n", " ")
	preview = strings.ReplaceAll(preview, "\r", " ")
	preview = strings.ReplaceAll(preview, "\t", " ")
	return TruncateText(preview, maxLen)
}

// FormatURL underlines link entries
func FormatURL(item *types.ClipboardItem, opts Options) string {
	url := TruncateText(item.Text, opts.MaxWidth)
	return ColorizeIf(url, Underline+Blue, opts.UseColors)
}

// FormatColor renders a color entry with a swatch when colors are enabled
func FormatColor(item *types.ClipboardItem, opts Options) string {
	if !opts.UseColors {
		return item.Color
	}
	r, g, b, ok := parseHexColor(item.Color)
	if !ok {
		return item.Color
	}
	return swatch(r, g, b) + " " + item.Color
}

func truncateEachLine(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = TruncateText(line, width)
	}
	return strings.Join(lines, "\n")
}
