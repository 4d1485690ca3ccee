package pcm

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/mattiekat/cgraph/internal/codec"
	"github.com/mattiekat/cgraph/pkg/mpmc"
)

// WritePcm drains a channel of interleaved PCM packets, encodes each
// sample at the configured bit width, compresses the accumulated bytes with
// the configured codec, and writes the result to w followed by a trailing
// blake2b-256 checksum of the uncompressed stream so a reader can verify
// nothing was corrupted in transit.
type WritePcm struct {
	Input    *mpmc.Receiver[[]float32]
	Encoding Encoding
	Codec    codec.Codec
	Out      io.Writer

	// closeOut is set when Out was opened by NewWritePcmFile and must be
	// closed by Run; it is nil when writing to a caller-owned writer such
	// as stdout.
	closeOut io.Closer
}

// NewWritePcmFile opens path for writing and returns a node that writes the
// channel's output there.
func NewWritePcmFile(path string, input *mpmc.Receiver[[]float32], encoding Encoding, c codec.Codec) (*WritePcm, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pcm: creating %s: %w", path, err)
	}
	return &WritePcm{Input: input, Encoding: encoding, Codec: c, Out: f, closeOut: f}, nil
}

// NewWritePcmWriter writes to an already-open writer (e.g. os.Stdout) that
// the caller remains responsible for closing.
func NewWritePcmWriter(w io.Writer, input *mpmc.Receiver[[]float32], encoding Encoding, c codec.Codec) *WritePcm {
	return &WritePcm{Input: input, Encoding: encoding, Codec: c, Out: w}
}

func (w *WritePcm) Name() string {
	return "Write PCM"
}

func (w *WritePcm) Run(ctx context.Context) error {
	if w.closeOut != nil {
		defer w.closeOut.Close()
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return fmt.Errorf("pcm: init checksum: %w", err)
	}

	var raw []byte
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		packet, err := w.Input.Recv()
		if err != nil {
			if mpmc.IsCorked(err) {
				break
			}
			return err
		}
		raw = append(raw, encodeSamples(packet, w.Encoding)...)
	}

	if _, err := hasher.Write(raw); err != nil {
		return fmt.Errorf("pcm: checksum: %w", err)
	}

	compressed, err := w.Codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("pcm: compress: %w", err)
	}
	if _, err := w.Out.Write(compressed); err != nil {
		return fmt.Errorf("pcm: write: %w", err)
	}
	if _, err := w.Out.Write(hasher.Sum(nil)); err != nil {
		return fmt.Errorf("pcm: write checksum: %w", err)
	}
	return nil
}

func encodeSamples(samples []float32, enc Encoding) []byte {
	bps := enc.BytesPerSample()
	out := make([]byte, 0, len(samples)*bps)
	var tmp [4]byte
	for _, v := range samples {
		switch enc {
		case EncodingInt16:
			binary.LittleEndian.PutUint16(tmp[:2], uint16(int16(v)))
			out = append(out, tmp[:2]...)
		case EncodingFloat32:
			binary.LittleEndian.PutUint32(tmp[:4], math.Float32bits(v))
			out = append(out, tmp[:4]...)
		}
	}
	return out
}
