package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec reuses one encoder and one decoder across calls; both are safe
// for sequential reuse and construction is comparatively expensive (it
// spins up the internal worker pool), so paying that cost once per process
// instead of once per block matters for the PCM writer's hot path.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() (Codec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: init zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: init zstd decoder: %w", err)
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (*zstdCodec) Kind() Kind {
	return KindZstd
}

func (c *zstdCodec) Compress(src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, nil), nil
}

func (c *zstdCodec) Decompress(src []byte) ([]byte, error) {
	return c.dec.DecodeAll(src, nil)
}
