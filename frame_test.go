// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func drawFrame(t *rapid.T) *Frame {
	payload := rapid.SliceOfN(rapid.Byte(), 0, 64*1024).Draw(t, "payload")
	if payload == nil {
		payload = []byte{}
	}
	return &Frame{
		Channel:  rapid.Uint32().Draw(t, "channel"),
		OffsetHi: rapid.Uint32().Draw(t, "offset_hi"),
		OffsetLo: rapid.Uint32().Draw(t, "offset_lo"),
		Flags:    rapid.Uint32().Draw(t, "flags"),
		Payload:  payload,
	}
}

func TestFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawFrame(t)

		encoded, err := in.appendTo(nil)
		require.NoError(t, err)
		require.Len(t, encoded, frameHeaderSize+len(in.Payload))

		var dec FrameDecoder
		frames, err := dec.Push(encoded)
		require.NoError(t, err)
		require.Len(t, frames, 1)
		require.Equal(t, in, frames[0])
	})
}

func TestFrameDecoderPiecewise(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := drawFrame(t)
		// Cap the payload so byte-at-a-time feeding stays fast.
		if len(in.Payload) > 512 {
			in.Payload = in.Payload[:512]
		}

		encoded, err := in.appendTo(nil)
		require.NoError(t, err)

		var dec FrameDecoder
		var got []*Frame
		for i := range encoded {
			frames, err := dec.Push(encoded[i : i+1])
			require.NoError(t, err)
			got = append(got, frames...)
		}
		require.Len(t, got, 1)
		require.Equal(t, in, got[0])
	})
}

func TestFrameDecoderCoalesced(t *testing.T) {
	a := &Frame{Channel: CommandChannel, Payload: []byte{1, 2, 3}}
	b := &Frame{Channel: 7, Payload: []byte{}}
	c := &Frame{Channel: 9, OffsetLo: 4, Flags: 1, Payload: []byte{4}}

	var encoded []byte
	for _, f := range []*Frame{a, b, c} {
		var err error
		encoded, err = f.appendTo(encoded)
		require.NoError(t, err)
	}

	var dec FrameDecoder
	frames, err := dec.Push(encoded)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, a, frames[0])
	assert.Equal(t, b, frames[1])
	assert.Equal(t, c, frames[2])
}

func TestFrameDecoderRejectsHugePayload(t *testing.T) {
	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:], MaxFramePayload+1)

	var dec FrameDecoder
	_, err := dec.Push(header[:])
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProtoPayloadTooLarge, perr.Kind)
}

func TestFrameDecoderEmitsFramesBeforeError(t *testing.T) {
	good := &Frame{Channel: CommandChannel, Payload: []byte{42}}
	encoded, err := good.appendTo(nil)
	require.NoError(t, err)

	var bad [frameHeaderSize]byte
	binary.BigEndian.PutUint32(bad[0:], MaxFramePayload+1)
	encoded = append(encoded, bad[:]...)

	var dec FrameDecoder
	frames, err := dec.Push(encoded)
	assert.Error(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, good, frames[0])
}

func TestIsCommand(t *testing.T) {
	assert.True(t, (&Frame{Channel: CommandChannel}).IsCommand())
	assert.False(t, (&Frame{Channel: 0}).IsCommand())
	assert.False(t, (&Frame{Channel: 7}).IsCommand())
}

func TestCommandFrameWrapsTagStruct(t *testing.T) {
	ts := NewTagStruct()
	putCommandHeader(ts, CommandAuth, 1)

	f, err := commandFrame(ts)
	require.NoError(t, err)
	assert.True(t, f.IsCommand())
	assert.Zero(t, f.OffsetHi)
	assert.Zero(t, f.OffsetLo)
	assert.Zero(t, f.Flags)

	decoded, err := ParseTagStruct(f.Payload)
	require.NoError(t, err)
	kind, tag, err := popCommandHeader(decoded)
	require.NoError(t, err)
	assert.Equal(t, CommandAuth, kind)
	assert.Equal(t, uint32(1), tag)
}
