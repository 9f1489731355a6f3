package format

import "github.com/berrythewa/clipman-history/internal/types"

// Options controls formatting behavior
type Options struct {
	UseColors    bool
	UseIcons     bool
	MaxWidth     int  // Max content width (0 = no limit)
	MaxLines     int  // Max content lines (0 = no limit)
	ShowMetadata bool // Show id, timestamps, size
	Compact      bool // Use compact single-line format
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		UseColors:    true,
		UseIcons:     true,
		MaxWidth:     80,
		MaxLines:     10,
		ShowMetadata: true,
		Compact:      false,
	}
}

// CompactOptions returns options for compact single-line display
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.Compact = true
	opts.ShowMetadata = false
	opts.MaxLines = 1
	return opts
}

// PlainOptions disables colors and icons, for pipes and tests
func PlainOptions() Options {
	opts := DefaultOptions()
	opts.UseColors = false
	opts.UseIcons = false
	return opts
}

// FormatIcons maps payload formats to Unicode icons
var FormatIcons = map[types.Format]string{
	types.FormatText:  "📝",
	types.FormatImage: "🖼️",
	types.FormatFile:  "📁",
	types.FormatHTML:  "🌐",
	types.FormatColor: "🎨",
}

// FormatColors maps payload formats to colors
var FormatColors = map[types.Format]string{
	types.FormatText:  Cyan,
	types.FormatImage: Magenta,
	types.FormatFile:  BrightYellow,
	types.FormatHTML:  Green,
	types.FormatColor: BrightMagenta,
}

// LinkIcon replaces the text icon for link entries
const LinkIcon = "🔗"
