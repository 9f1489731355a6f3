package types

import "time"

// Format describes how a clipboard payload is physically encoded
type Format string

const (
	FormatText  Format = "text"
	FormatImage Format = "image"
	FormatHTML  Format = "html"
	FormatFile  Format = "file"
	FormatColor Format = "color"
)

// Valid reports whether f is one of the known formats
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatImage, FormatHTML, FormatFile, FormatColor:
		return true
	}
	return false
}

// Category is the derived meaning of a payload
type Category string

const (
	CategoryLink  Category = "link"
	CategoryImage Category = "image"
	CategoryText  Category = "text"
	CategoryFile  Category = "file"
)

// ClipboardItem is the externally visible form of a history entry.
// Payload fields are omitted when they do not apply to the entry's format.
type ClipboardItem struct {
	ID          int64    `json:"id"`
	Format      Format   `json:"format"`
	Category    Category `json:"category"`
	Text        string   `json:"text,omitempty"`
	HTML        string   `json:"html,omitempty"`
	FilePath    string   `json:"filePath,omitempty"`
	Color       string   `json:"color,omitempty"`
	ImageBase64 string   `json:"imageBase64,omitempty"`
	ImageWidth  int64    `json:"imageWidth,omitempty"`
	ImageHeight int64    `json:"imageHeight,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	Pinned      bool     `json:"pinned,omitempty"`
}

// Created returns CreatedAt as a time.Time
func (i *ClipboardItem) Created() time.Time {
	return time.UnixMilli(i.CreatedAt)
}

// TextualValue returns the populated textual payload field, if any
func (i *ClipboardItem) TextualValue() string {
	switch {
	case i.Text != "":
		return i.Text
	case i.HTML != "":
		return i.HTML
	case i.FilePath != "":
		return i.FilePath
	default:
		return i.Color
	}
}

// NewItem is a classified capture waiting to be recorded.
// Image holds PNG-encoded bytes.
type NewItem struct {
	Format      Format
	Category    Category
	Text        string
	HTML        string
	FilePath    string
	Color       string
	Image       []byte
	ImageWidth  int64
	ImageHeight int64
	CreatedAt   int64
}

// Size returns the payload size in bytes
func (n *NewItem) Size() int64 {
	return int64(len(n.Text) + len(n.HTML) + len(n.FilePath) + len(n.Color) + len(n.Image))
}

// Point is a screen position in physical pixels
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Stats summarizes the contents of the history store
type Stats struct {
	Total      int64            `json:"total"`
	Pinned     int64            `json:"pinned"`
	Capacity   int              `json:"capacity"`
	LastID     int64            `json:"lastId"`
	Oldest     int64            `json:"oldest,omitempty"`
	Newest     int64            `json:"newest,omitempty"`
	ByFormat   map[Format]int64 `json:"byFormat,omitempty"`
	SizeOnDisk int64            `json:"sizeOnDisk"`
}

// NowMillis returns the current wall clock in epoch milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
