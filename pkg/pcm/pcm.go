// Package pcm is an example integration layer: a handful of cgraph.Node
// implementations that read raw PCM audio from a directory of per-channel
// files, amplify it, interleave the channels back together, and write the
// result out — compressed and checksummed. None of this exercises anything
// about the channel subsystem beyond being an ordinary cgraph.Node
// consumer; it exists to give the compute-graph layer something realistic
// to run.
package pcm

// Encoding identifies how samples are laid out on the wire: as 16-bit
// signed integers or 32-bit IEEE floats.
type Encoding int

const (
	EncodingInt16 Encoding = iota
	EncodingFloat32
)

func (e Encoding) String() string {
	switch e {
	case EncodingInt16:
		return "int16"
	case EncodingFloat32:
		return "float32"
	default:
		return "unknown"
	}
}

// ParseEncoding accepts the short and long spellings of each sample format:
// "int"/"int16" and "float"/"float32".
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "int", "int16":
		return EncodingInt16, nil
	case "float", "float32":
		return EncodingFloat32, nil
	default:
		return 0, errUnknownEncoding(s)
	}
}

type errUnknownEncoding string

func (e errUnknownEncoding) Error() string {
	return "pcm: unknown encoding " + string(e)
}

// BytesPerSample reports how many bytes one sample occupies on the wire.
func (e Encoding) BytesPerSample() int {
	switch e {
	case EncodingInt16:
		return 2
	case EncodingFloat32:
		return 4
	default:
		return 0
	}
}

// DefaultPacketBytes bounds the size of one channel message: ReadPcmDirectory
// reads at most this many bytes of encoded input per packet, and
// InterleaveChannels emits at most this many bytes' worth of float32
// samples per packet.
const DefaultPacketBytes = 4 * 1024

// DefaultBufferDepth is the bound NewReadPcmDirectory passes to mpmc.New
// for each per-channel output it creates.
const DefaultBufferDepth = 128
