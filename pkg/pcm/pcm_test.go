package pcm

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattiekat/cgraph/internal/codec"
	"github.com/mattiekat/cgraph/pkg/mpmc"
)

func TestInterleaveChannelsEvenSplit(t *testing.T) {
	tx0, rx0 := mpmc.New[[]float32](1)
	tx1, rx1 := mpmc.New[[]float32](1)
	outTx, outRx := mpmc.New[[]float32](1)

	ic := NewInterleaveChannels([]*mpmc.Receiver[[]float32]{rx0, rx1}, outTx)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ic.Run(ctx) }()

	for i := 0; i < 10; i++ {
		base := float32(i * 20)
		pkt0 := make([]float32, 10)
		pkt1 := make([]float32, 10)
		for j := 0; j < 10; j++ {
			pkt0[j] = base + float32(j*2)
			pkt1[j] = base + float32(j*2+1)
		}
		require.NoError(t, tx0.Send(pkt0))
		require.NoError(t, tx1.Send(pkt1))
	}
	tx0.Close()
	tx1.Close()

	var got []float32
	for {
		pkt, err := outRx.Recv()
		if mpmc.IsCorked(err) {
			break
		}
		require.NoError(t, err)
		got = append(got, pkt...)
	}
	require.NoError(t, <-done)

	require.Len(t, got, 200)
	for i, v := range got {
		assert.Equal(t, float32(i), v)
	}
}

func TestInterleaveChannelsUnevenDropsRaggedTail(t *testing.T) {
	tx0, rx0 := mpmc.New[[]float32](1)
	tx1, rx1 := mpmc.New[[]float32](1)
	outTx, outRx := mpmc.New[[]float32](1)

	ic := NewInterleaveChannels([]*mpmc.Receiver[[]float32]{rx0, rx1}, outTx)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ic.Run(ctx) }()

	require.NoError(t, tx0.Send([]float32{0}))
	require.NoError(t, tx1.Send([]float32{1, 3}))
	require.NoError(t, tx0.Send([]float32{2, 4, 6}))
	require.NoError(t, tx1.Send([]float32{5}))
	require.NoError(t, tx0.Send([]float32{8, 10}))
	tx0.Close()
	tx1.Close()

	var got []float32
	for {
		pkt, err := outRx.Recv()
		if mpmc.IsCorked(err) {
			break
		}
		require.NoError(t, err)
		got = append(got, pkt...)
	}
	require.NoError(t, <-done)

	require.Len(t, got, 6)
	for i, v := range got {
		assert.Equal(t, float32(i), v)
	}
}

func TestAmplifyLinearSignal(t *testing.T) {
	out := AmplifyLinearSignal([]float32{1, 2, 3}, 10)
	require.Len(t, out, 3)
	assert.InDelta(t, 10, out[0], 0.001)
	assert.InDelta(t, 20, out[1], 0.001)
	assert.InDelta(t, 30, out[2], 0.001)
}

func TestWritePcmWriterRoundTrip(t *testing.T) {
	tx, rx := mpmc.New[[]float32](4)
	var buf bytes.Buffer
	none, err := codec.New(codec.KindNone)
	require.NoError(t, err)

	w := NewWritePcmWriter(&buf, rx, EncodingFloat32, none)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	require.NoError(t, tx.Send([]float32{1, 2, 3}))
	require.NoError(t, tx.Send([]float32{4, 5}))
	tx.Close()

	require.NoError(t, <-done)
	// 5 float32 samples (20 bytes) + 32-byte blake2b-256 checksum
	assert.Equal(t, 20+32, buf.Len())
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("float")
	require.NoError(t, err)
	assert.Equal(t, EncodingFloat32, enc)

	enc, err = ParseEncoding("int16")
	require.NoError(t, err)
	assert.Equal(t, EncodingInt16, enc)

	_, err = ParseEncoding("bogus")
	assert.Error(t, err)
}
