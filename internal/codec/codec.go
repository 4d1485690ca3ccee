// Package codec provides pluggable block compression for the PCM output
// writer node. None of this module's own wire protocol needs compression;
// this exists purely to exercise three codec libraries in
// the one place a byte stream is written to disk or stdout.
package codec

import "fmt"

// Kind names a supported compression codec.
type Kind string

const (
	KindNone   Kind = "none"
	KindSnappy Kind = "snappy"
	KindLZ4    Kind = "lz4"
	KindZstd   Kind = "zstd"
)

// Codec compresses and decompresses whole in-memory blocks. PCM frames are
// small enough that a streaming API would add complexity without benefit,
// so every implementation works against full byte slices.
type Codec interface {
	Kind() Kind
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// New returns the Codec for kind. An unrecognized kind is a configuration
// error, not a panic, since it usually originates from a user-supplied
// config file.
func New(kind Kind) (Codec, error) {
	switch kind {
	case "", KindNone:
		return noneCodec{}, nil
	case KindSnappy:
		return snappyCodec{}, nil
	case KindLZ4:
		return lz4Codec{}, nil
	case KindZstd:
		return newZstdCodec()
	default:
		return nil, fmt.Errorf("codec: unknown kind %q", kind)
	}
}

type noneCodec struct{}

func (noneCodec) Kind() Kind                              { return KindNone }
func (noneCodec) Compress(src []byte) ([]byte, error)     { return src, nil }
func (noneCodec) Decompress(src []byte) ([]byte, error)   { return src, nil }
