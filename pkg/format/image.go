package format

import (
	"encoding/base64"
	"fmt"

	"github.com/berrythewa/clipman-history/internal/types"
)

// FormatImage describes image content, which cannot be shown inline
func FormatImage(item *types.ClipboardItem) string {
	size := FormatSize(PayloadSize(item))
	if item.ImageWidth > 0 && item.ImageHeight > 0 {
		return fmt.Sprintf("[PNG image %dx%d - %s]", item.ImageWidth, item.ImageHeight, size)
	}
	return fmt.Sprintf("[PNG image - %s]", size)
}

// FormatImagePreview creates a short preview of image content
func FormatImagePreview(item *types.ClipboardItem) string {
	if item.ImageWidth > 0 && item.ImageHeight > 0 {
		return fmt.Sprintf("[Image %dx%d]", item.ImageWidth, item.ImageHeight)
	}
	return fmt.Sprintf("[Image %s]", FormatSize(PayloadSize(item)))
}

// PayloadSize returns the size of the stored payload in bytes. Images are
// measured by their decoded PNG size.
func PayloadSize(item *types.ClipboardItem) int64 {
	if item.Format == types.FormatImage {
		return int64(base64.StdEncoding.DecodedLen(len(item.ImageBase64)))
	}
	return int64(len(item.TextualValue()))
}
