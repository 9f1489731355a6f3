package format

import (
	"path/filepath"

	"github.com/berrythewa/clipman-history/internal/types"
)

// FormatFile shows the path with its base name highlighted
func FormatFile(item *types.ClipboardItem) string {
	if item.FilePath == "" {
		return "[Empty file path]"
	}
	return item.FilePath + "\n" + "(" + filepath.Base(item.FilePath) + ")"
}
