package compression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

const (
	// DefaultThreshold is the payload size below which data is stored as-is
	DefaultThreshold = 1024 // 1KB

	codecRaw  byte = 0x00
	codecGzip byte = 0x01
)

// Encode frames data with a one byte codec header, gzipping it when it is at
// least threshold bytes long and compression actually saves space.
func Encode(data []byte, threshold int) ([]byte, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(data) >= threshold {
		var buf bytes.Buffer
		buf.WriteByte(codecGzip)
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		if buf.Len() < len(data)+1 {
			return buf.Bytes(), nil
		}
	}

	out := make([]byte, 0, len(data)+1)
	out = append(out, codecRaw)
	return append(out, data...), nil
}

// Decode reverses Encode
func Decode(framed []byte) ([]byte, error) {
	if len(framed) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	switch framed[0] {
	case codecRaw:
		return framed[1:], nil
	case codecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(framed[1:]))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("unknown codec 0x%02x", framed[0])
	}
}

// IsCompressed reports whether a frame carries gzip data
func IsCompressed(framed []byte) bool {
	return len(framed) > 0 && framed[0] == codecGzip
}
