package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte("pcm-frame-0123456789-pcm-frame-0123456789-pcm-frame")

	for _, kind := range []Kind{KindNone, KindSnappy, KindLZ4, KindZstd} {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			c, err := New(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, c.Kind())

			compressed, err := c.Compress(payload)
			require.NoError(t, err)

			out, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(Kind("bogus"))
	assert.Error(t, err)
}
