package fingerprint

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipman-history/internal/types"
)

func textItem(s string) *types.NewItem {
	return &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: s}
}

func TestNormalize(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"  hello  ", "hello"},
		{"hello \t\n world", "hello world"},
		{"café", "café"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Normalize(tt.in), "Normalize(%q)", tt.in)
	}

	raw := Policy{}
	assert.Equal(t, "  a  b ", raw.Normalize("  a  b "))
}

func TestComputeTextDedup(t *testing.T) {
	p := DefaultPolicy()

	a, err := p.Compute(textItem("hello   world"))
	require.NoError(t, err)
	b, err := p.Compute(textItem("  hello world\n"))
	require.NoError(t, err)
	c, err := p.Compute(textItem("hello world!"))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestComputeIncludesFormat(t *testing.T) {
	p := DefaultPolicy()

	text, err := p.Compute(textItem("#ffffff"))
	require.NoError(t, err)
	col, err := p.Compute(&types.NewItem{Format: types.FormatColor, Color: "#FFFFFF"})
	require.NoError(t, err)
	col2, err := p.Compute(&types.NewItem{Format: types.FormatColor, Color: "#ffffff"})
	require.NoError(t, err)

	assert.False(t, text.Equal(col))
	assert.True(t, col.Equal(col2))
}

func TestComputeUnknownFormat(t *testing.T) {
	_, err := DefaultPolicy().Compute(&types.NewItem{Format: "rtf"})
	assert.Error(t, err)

	_, err = DefaultPolicy().Compute(nil)
	assert.Error(t, err)
}

func encodePNG(t *testing.T, img image.Image, level png.CompressionLevel) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: level}
	require.NoError(t, enc.Encode(&buf, img))
	return buf.Bytes()
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 60), B: 200, A: 255})
		}
	}
	return img
}

func TestComputeImagePixelsIgnoresEncoding(t *testing.T) {
	img := testImage()
	fast := encodePNG(t, img, png.BestSpeed)
	best := encodePNG(t, img, png.BestCompression)
	require.NotEqual(t, fast, best)

	p := DefaultPolicy()
	a, err := p.Compute(&types.NewItem{Format: types.FormatImage, Image: fast})
	require.NoError(t, err)
	b, err := p.Compute(&types.NewItem{Format: types.FormatImage, Image: best})
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	encoded := Policy{ImageBasis: ImageBasisEncoded}
	c, err := encoded.Compute(&types.NewItem{Format: types.FormatImage, Image: fast})
	require.NoError(t, err)
	d, err := encoded.Compute(&types.NewItem{Format: types.FormatImage, Image: best})
	require.NoError(t, err)
	assert.False(t, c.Equal(d))
}

func TestDecodePixels(t *testing.T) {
	pix, w, h, err := DecodePixels(encodePNG(t, testImage(), png.DefaultCompression))
	require.NoError(t, err)
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
	assert.Len(t, pix, 4*3*4)

	_, _, _, err = DecodePixels([]byte("not an image"))
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	fp, err := DefaultPolicy().Compute(textItem("hello"))
	require.NoError(t, err)

	s := fp.String()
	assert.NotEmpty(t, s)

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.True(t, fp.Equal(parsed))

	assert.Equal(t, "", Fingerprint(nil).String())
}
