package clipboard

import (
	"bytes"
	"image"
	_ "image/png"
	"strings"

	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/types"
)

// Classify turns a clipboard snapshot into a history candidate. Images win
// over text, and text is trimmed before any rule is applied. It returns nil
// when the snapshot has nothing worth recording.
func Classify(content *platform.Content, createdAt int64) *types.NewItem {
	if content == nil {
		return nil
	}

	if len(content.Image) > 0 {
		item := &types.NewItem{
			Format:    types.FormatImage,
			Category:  types.CategoryImage,
			Image:     content.Image,
			CreatedAt: createdAt,
		}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(content.Image)); err == nil {
			item.ImageWidth = int64(cfg.Width)
			item.ImageHeight = int64(cfg.Height)
		}
		return item
	}

	text := strings.TrimSpace(content.Text)
	if text == "" {
		if html := strings.TrimSpace(content.HTML); html != "" {
			return &types.NewItem{
				Format:    types.FormatHTML,
				Category:  types.CategoryText,
				HTML:      html,
				CreatedAt: createdAt,
			}
		}
		return nil
	}

	item := &types.NewItem{CreatedAt: createdAt}
	switch {
	case IsColor(text):
		item.Format = types.FormatColor
		item.Category = types.CategoryText
		item.Color = text
	case IsFilePath(text):
		item.Format = types.FormatFile
		item.Category = types.CategoryFile
		item.FilePath = text
	case IsURL(text):
		item.Format = types.FormatText
		item.Category = types.CategoryLink
		item.Text = text
	default:
		item.Format = types.FormatText
		item.Category = types.CategoryText
		item.Text = text
	}
	return item
}

// Validate rejects items Classify could never have produced. Only the payload
// field named by the format may be set.
func Validate(item *types.NewItem) error {
	if item == nil {
		return types.Wrapf(types.ErrInvalidArgument, "nothing to record")
	}
	if !item.Format.Valid() {
		return types.Wrapf(types.ErrInvalidArgument, "unknown format %q", item.Format)
	}

	switch item.Category {
	case types.CategoryLink:
		if item.Format != types.FormatText || !IsURL(strings.TrimSpace(item.Text)) {
			return types.Wrapf(types.ErrInvalidArgument, "link category requires URL text")
		}
	case types.CategoryImage:
		if item.Format != types.FormatImage {
			return types.Wrapf(types.ErrInvalidArgument, "image category requires image format, got %s", item.Format)
		}
	case types.CategoryText, types.CategoryFile:
	default:
		return types.Wrapf(types.ErrInvalidArgument, "unknown category %q", item.Category)
	}

	populated := map[types.Format]bool{
		types.FormatText:  item.Text != "",
		types.FormatHTML:  item.HTML != "",
		types.FormatFile:  item.FilePath != "",
		types.FormatColor: item.Color != "",
		types.FormatImage: len(item.Image) > 0,
	}
	for format, set := range populated {
		if set != (format == item.Format) {
			return types.Wrapf(types.ErrInvalidArgument, "%s item must carry only its %s payload", item.Format, item.Format)
		}
	}
	return nil
}

// IsURL reports whether s starts with an http or https scheme
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsFilePath recognizes UNC paths, drive-letter paths and absolute unix paths
func IsFilePath(s string) bool {
	if strings.HasPrefix(s, `\\`) {
		return true
	}
	if len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') {
		return true
	}
	return strings.HasPrefix(s, "/")
}

// IsColor recognizes #rgb, #rgba, #rrggbb and #rrggbbaa
func IsColor(s string) bool {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return false
	}
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
