// Package fingerprint computes the content hashes used to detect repeated copies.
//
// A fingerprint is a sha2-256 multihash over the entry format followed by the
// normalized payload bytes. Text-like payloads are normalized according to a
// Policy; images are hashed over their decoded pixels so that two encodings of
// the same picture collapse into one history entry.
package fingerprint

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"unicode"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"golang.org/x/text/unicode/norm"

	"github.com/berrythewa/clipman-history/internal/types"
)

// ImageBasis selects which bytes of an image payload are hashed
type ImageBasis string

const (
	ImageBasisPixels  ImageBasis = "pixels"
	ImageBasisEncoded ImageBasis = "encoded"
)

// Policy controls payload normalization before hashing
type Policy struct {
	Trim               bool       `json:"trim" yaml:"trim"`
	CollapseWhitespace bool       `json:"collapse_whitespace" yaml:"collapse_whitespace"`
	ImageBasis         ImageBasis `json:"image_basis" yaml:"image_basis"`
}

// DefaultPolicy trims, collapses whitespace and hashes decoded pixels
func DefaultPolicy() Policy {
	return Policy{
		Trim:               true,
		CollapseWhitespace: true,
		ImageBasis:         ImageBasisPixels,
	}
}

// Fingerprint is a multihash digest
type Fingerprint []byte

// String renders the fingerprint as a CIDv1 over the raw codec
func (f Fingerprint) String() string {
	if len(f) == 0 {
		return ""
	}
	decoded, err := mh.Cast(f)
	if err != nil {
		return fmt.Sprintf("%x", []byte(f))
	}
	return cid.NewCidV1(cid.Raw, decoded).String()
}

// Equal reports whether two fingerprints carry the same digest
func (f Fingerprint) Equal(other Fingerprint) bool {
	return bytes.Equal(f, other)
}

// Parse decodes the String form of a fingerprint
func Parse(s string) (Fingerprint, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fingerprint: %w", err)
	}
	return Fingerprint(c.Hash()), nil
}

// Compute fingerprints a classified capture
func (p Policy) Compute(item *types.NewItem) (Fingerprint, error) {
	if item == nil {
		return nil, fmt.Errorf("nil item")
	}

	var payload []byte
	switch item.Format {
	case types.FormatText:
		payload = []byte(p.Normalize(item.Text))
	case types.FormatHTML:
		payload = []byte(p.Normalize(item.HTML))
	case types.FormatColor:
		payload = []byte(strings.ToLower(p.Normalize(item.Color)))
	case types.FormatFile:
		payload = []byte(strings.TrimSpace(item.FilePath))
	case types.FormatImage:
		payload = p.imagePayload(item)
	default:
		return nil, fmt.Errorf("unknown format %q", item.Format)
	}

	buf := make([]byte, 0, len(item.Format)+1+len(payload))
	buf = append(buf, item.Format...)
	buf = append(buf, 0)
	buf = append(buf, payload...)

	sum, err := mh.Sum(buf, mh.SHA2_256, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to hash payload: %w", err)
	}
	return Fingerprint(sum), nil
}

// Normalize applies the text normalization rules of the policy.
// Input is always NFC-normalized so that composed and decomposed forms match.
func (p Policy) Normalize(s string) string {
	s = norm.NFC.String(s)
	if p.Trim {
		s = strings.TrimSpace(s)
	}
	if p.CollapseWhitespace {
		s = collapseWhitespace(s)
	}
	return s
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// imagePayload returns the bytes an image is hashed over. Undecodable images
// fall back to their encoded form.
func (p Policy) imagePayload(item *types.NewItem) []byte {
	if p.ImageBasis == ImageBasisEncoded {
		return item.Image
	}
	pix, w, h, err := DecodePixels(item.Image)
	if err != nil {
		return item.Image
	}
	out := make([]byte, 8, 8+len(pix))
	binary.BigEndian.PutUint32(out[0:4], uint32(w))
	binary.BigEndian.PutUint32(out[4:8], uint32(h))
	return append(out, pix...)
}

// DecodePixels decodes an encoded image into non-premultiplied RGBA pixels
func DecodePixels(data []byte) ([]byte, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return rgba.Pix, bounds.Dx(), bounds.Dy(), nil
}
