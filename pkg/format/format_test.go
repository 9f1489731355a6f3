package format

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/berrythewa/clipman-history/internal/types"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in))
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{48 * time.Hour, "2 days ago"},
		{30 * 24 * time.Hour, "Apr 20, 2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTo(now.Add(-tt.ago), now))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", TruncateText("hello", 10))
	assert.Equal(t, "hel...", TruncateText("hello world", 6))
	assert.Equal(t, "ñañ", TruncateText("ñañaña", 3))
	assert.Equal(t, "anything", TruncateText("anything", 0))

	assert.Equal(t, "a\nb\n... (2 more lines)", TruncateLines("a\nb\nc\nd", 2))
	assert.Equal(t, "a\nb", TruncateLines("a\nb", 2))
}

func TestParseHexColor(t *testing.T) {
	r, g, b, ok := parseHexColor("#ff8000")
	assert.True(t, ok)
	assert.Equal(t, []uint8{255, 128, 0}, []uint8{r, g, b})

	r, g, b, ok = parseHexColor("#0f0a")
	assert.True(t, ok)
	assert.Equal(t, []uint8{0, 255, 0}, []uint8{r, g, b})

	_, _, _, ok = parseHexColor("ff8000")
	assert.False(t, ok)
	_, _, _, ok = parseHexColor("#12345")
	assert.False(t, ok)
}

func TestFormatItemCompact(t *testing.T) {
	opts := CompactOptions()
	opts.UseColors = false
	opts.UseIcons = false

	link := &types.ClipboardItem{ID: 7, Format: types.FormatText, Category: types.CategoryLink, Text: "https://example.com", Pinned: true}
	assert.Equal(t, "#7 text/link [pinned] https://example.com", FormatItem(link, opts))

	multi := &types.ClipboardItem{ID: 8, Format: types.FormatText, Category: types.CategoryText, Text: "line one\nline two"}
	assert.Equal(t, "#8 text line one line two", FormatItem(multi, opts))

	img := &types.ClipboardItem{
		ID: 9, Format: types.FormatImage, Category: types.CategoryImage,
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("png-bytes")),
		ImageWidth:  4, ImageHeight: 2,
	}
	assert.Equal(t, "#9 image [Image 4x2]", FormatItem(img, opts))
}

func TestFormatItemListPlain(t *testing.T) {
	items := []*types.ClipboardItem{
		{ID: 2, Format: types.FormatFile, Category: types.CategoryFile, FilePath: "/tmp/report.pdf", CreatedAt: time.Now().UnixMilli()},
		{ID: 1, Format: types.FormatColor, Category: types.CategoryText, Color: "#fff", CreatedAt: time.Now().UnixMilli()},
	}
	out := FormatItemList(items, PlainOptions())

	assert.True(t, strings.HasPrefix(out, "📋 Clipboard History (2 entries)"))
	assert.Contains(t, out, "#2 file")
	assert.Contains(t, out, "(report.pdf)")
	assert.Contains(t, out, "#1 color")
	assert.Contains(t, out, "  #fff")
	assert.Less(t, strings.Index(out, "#2 file"), strings.Index(out, "#1 color"))

	assert.Equal(t, "No clipboard history", FormatItemList(nil, PlainOptions()))
}

func TestFormatStats(t *testing.T) {
	stats := &types.Stats{
		Total:    3,
		Pinned:   1,
		Capacity: 500,
		LastID:   9,
		ByFormat: map[types.Format]int64{types.FormatText: 2, types.FormatImage: 1},
		Oldest:   time.Now().UnixMilli(),
		Newest:   time.Now().UnixMilli(),
	}
	out := FormatStats(stats, PlainOptions())
	assert.Contains(t, out, "Total entries: 3 / 500")
	assert.Contains(t, out, "Pinned: 1")
	assert.Contains(t, out, "  image: 1\n  text: 2")
}
