package compression

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSmallStaysRaw(t *testing.T) {
	framed, err := Encode([]byte("short"), 1024)
	require.NoError(t, err)
	assert.False(t, IsCompressed(framed))

	data, err := Decode(framed)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestEncodeLargeIsCompressed(t *testing.T) {
	payload := []byte(strings.Repeat("clipboard history ", 500))

	framed, err := Encode(payload, 1024)
	require.NoError(t, err)
	assert.True(t, IsCompressed(framed))
	assert.Less(t, len(framed), len(payload))

	data, err := Decode(framed)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)

	_, err = Decode([]byte{0x7f, 'x'})
	assert.Error(t, err)

	_, err = Decode([]byte{codecGzip, 'n', 'o', 'p', 'e'})
	assert.Error(t, err)
}
