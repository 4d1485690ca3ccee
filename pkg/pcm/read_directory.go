package pcm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cenkalti/backoff/v5"
	"github.com/gobwas/glob"

	"github.com/mattiekat/cgraph/pkg/mpmc"
)

// ReadPcmDirectory reads one file per channel out of a directory (e.g.
// 0.pcm, 1.pcm, ...) and republishes each file's decoded samples on its own
// channel sender, so downstream nodes can process channels independently
// before they are interleaved back together.
type ReadPcmDirectory struct {
	Dir      string
	Encoding Encoding
	// Pattern selects which directory entries are channel files; channels
	// are assigned in sorted-filename order.
	Pattern string

	senders []*mpmc.Sender[[]float32]
}

// NewReadPcmDirectory builds a reader and count fresh bounded channels, one
// per expected channel file, to publish decoded samples on. Files are only
// matched when Run starts, which fails if the number found differs from
// count. The caller takes ownership of the returned receivers (in file
// order).
func NewReadPcmDirectory(dir string, encoding Encoding, pattern string, count int) (*ReadPcmDirectory, []*mpmc.Receiver[[]float32], error) {
	if pattern == "" {
		pattern = "*.pcm"
	}
	senders := make([]*mpmc.Sender[[]float32], 0, count)
	receivers := make([]*mpmc.Receiver[[]float32], 0, count)
	for i := 0; i < count; i++ {
		tx, rx := mpmc.New[[]float32](DefaultBufferDepth)
		senders = append(senders, tx)
		receivers = append(receivers, rx)
	}
	return &ReadPcmDirectory{Dir: dir, Encoding: encoding, Pattern: pattern, senders: senders}, receivers, nil
}

func (r *ReadPcmDirectory) Name() string {
	return "Read PCM Directory"
}

func (r *ReadPcmDirectory) Run(ctx context.Context) error {
	defer func() {
		for _, tx := range r.senders {
			tx.Close()
		}
	}()

	files, err := r.matchedFiles()
	if err != nil {
		return err
	}
	if len(files) != len(r.senders) {
		return fmt.Errorf("pcm: expected %d channel files matching %q in %s, found %d", len(r.senders), r.Pattern, r.Dir, len(files))
	}

	for i, path := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.streamFile(path, r.senders[i]); err != nil {
			return fmt.Errorf("pcm: reading %s: %w", path, err)
		}
	}
	return nil
}

func (r *ReadPcmDirectory) matchedFiles() ([]string, error) {
	g, err := glob.Compile(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pcm: bad pattern %q: %w", r.Pattern, err)
	}
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, fmt.Errorf("pcm: reading directory %s: %w", r.Dir, err)
	}
	var matched []string
	for _, ent := range entries {
		if ent.IsDir() || !g.Match(ent.Name()) {
			continue
		}
		matched = append(matched, filepath.Join(r.Dir, ent.Name()))
	}
	sort.Strings(matched)
	return matched, nil
}

func (r *ReadPcmDirectory) streamFile(path string, tx *mpmc.Sender[[]float32]) error {
	open := func() (*os.File, error) {
		return os.Open(path)
	}
	f, err := backoff.Retry(context.Background(), open, backoff.WithMaxTries(3))
	if err != nil {
		return err
	}
	defer f.Close()

	bps := r.Encoding.BytesPerSample()
	raw := make([]byte, DefaultPacketBytes-(DefaultPacketBytes%bps))
	for {
		n, err := f.Read(raw)
		if n > 0 {
			samples := decodeSamples(raw[:n-n%bps], r.Encoding)
			if len(samples) > 0 {
				if sendErr := tx.Send(samples); sendErr != nil {
					return sendErr
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func decodeSamples(raw []byte, enc Encoding) []float32 {
	bps := enc.BytesPerSample()
	out := make([]float32, 0, len(raw)/bps)
	for off := 0; off+bps <= len(raw); off += bps {
		switch enc {
		case EncodingInt16:
			v := int16(binary.LittleEndian.Uint16(raw[off : off+2]))
			out = append(out, float32(v))
		case EncodingFloat32:
			bits := binary.LittleEndian.Uint32(raw[off : off+4])
			out = append(out, math.Float32frombits(bits))
		}
	}
	return out
}
