package storage

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/berrythewa/clipman-history/internal/types"
	"github.com/berrythewa/clipman-history/pkg/compression"
)

// Entry is the stored form of a history item. Image holds PNG bytes; the
// base64 form exposed to callers is derived on read.
type Entry struct {
	ID          int64          `json:"id"`
	Format      types.Format   `json:"format"`
	Category    types.Category `json:"category"`
	Text        string         `json:"text,omitempty"`
	HTML        string         `json:"html,omitempty"`
	FilePath    string         `json:"file_path,omitempty"`
	Color       string         `json:"color,omitempty"`
	Image       []byte         `json:"image,omitempty"`
	ImageWidth  int64          `json:"image_width,omitempty"`
	ImageHeight int64          `json:"image_height,omitempty"`
	CreatedAt   int64          `json:"created_at"`
	Pinned      bool           `json:"pinned,omitempty"`
	Fingerprint []byte         `json:"fingerprint"`
}

func newEntry(id int64, item *types.NewItem, fp []byte, createdAt int64) *Entry {
	return &Entry{
		ID:          id,
		Format:      item.Format,
		Category:    item.Category,
		Text:        item.Text,
		HTML:        item.HTML,
		FilePath:    item.FilePath,
		Color:       item.Color,
		Image:       item.Image,
		ImageWidth:  item.ImageWidth,
		ImageHeight: item.ImageHeight,
		CreatedAt:   createdAt,
		Fingerprint: fp,
	}
}

// TextualValue returns whichever textual payload field is populated
func (e *Entry) TextualValue() string {
	switch {
	case e.Text != "":
		return e.Text
	case e.HTML != "":
		return e.HTML
	case e.FilePath != "":
		return e.FilePath
	default:
		return e.Color
	}
}

// Item converts the entry to its external form. imageBase64 is supplied by
// the caller so that encodings can be cached across queries.
func (e *Entry) Item(imageBase64 string) *types.ClipboardItem {
	item := &types.ClipboardItem{
		ID:        e.ID,
		Format:    e.Format,
		Category:  e.Category,
		Text:      e.Text,
		HTML:      e.HTML,
		FilePath:  e.FilePath,
		Color:     e.Color,
		CreatedAt: e.CreatedAt,
		Pinned:    e.Pinned,
	}
	if e.Format == types.FormatImage {
		item.ImageBase64 = imageBase64
		item.ImageWidth = e.ImageWidth
		item.ImageHeight = e.ImageHeight
	}
	return item
}

func encodeEntry(e *Entry, threshold int) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entry")
	}
	return compression.Encode(raw, threshold)
}

func decodeEntry(v []byte) (*Entry, error) {
	raw, err := compression.Decode(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress entry")
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal entry")
	}
	return &e, nil
}
