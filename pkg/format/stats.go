package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/berrythewa/clipman-history/internal/types"
)

// FormatStats formats store statistics for display
func FormatStats(stats *types.Stats, opts Options) string {
	var parts []string

	parts = append(parts, ColorizeIf("📊 Clipboard Statistics", BrightBlue, opts.UseColors))
	parts = append(parts, "")

	parts = append(parts, formatStatLine("Total entries", fmt.Sprintf("%d / %d", stats.Total, stats.Capacity), opts))
	parts = append(parts, formatStatLine("Pinned", fmt.Sprintf("%d", stats.Pinned), opts))
	parts = append(parts, formatStatLine("Last id", fmt.Sprintf("%d", stats.LastID), opts))
	parts = append(parts, formatStatLine("Database size", FormatSize(stats.SizeOnDisk), opts))

	if stats.Total > 0 {
		parts = append(parts, formatStatLine("Oldest entry", FormatRelativeTime(time.UnixMilli(stats.Oldest)), opts))
		parts = append(parts, formatStatLine("Newest entry", FormatRelativeTime(time.UnixMilli(stats.Newest)), opts))
	}

	if len(stats.ByFormat) > 0 {
		formats := make([]string, 0, len(stats.ByFormat))
		for f := range stats.ByFormat {
			formats = append(formats, string(f))
		}
		sort.Strings(formats)

		parts = append(parts, "")
		parts = append(parts, ColorizeIf("Entries by format", BrightBlue, opts.UseColors))
		for _, name := range formats {
			f := types.Format(name)
			icon := ""
			if opts.UseIcons {
				if i, ok := FormatIcons[f]; ok {
					icon = i + " "
				}
			}
			line := fmt.Sprintf("  %s%s: %d", icon, ColorizeIf(name, FormatColors[f], opts.UseColors), stats.ByFormat[f])
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, "\n")
}

// formatStatLine formats a statistics line with label and value
func formatStatLine(label, value string, opts Options) string {
	if opts.UseColors {
		return fmt.Sprintf("  %s%s:%s %s", BrightCyan, label, Reset, value)
	}
	return fmt.Sprintf("  %s: %s", label, value)
}
