// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"encoding/binary"
)

const (
	// CommandChannel marks a frame whose payload is a command tag
	// struct rather than stream data.
	CommandChannel uint32 = 0xFFFFFFFF

	// InvalidIndex is the reserved "no such object" index.
	InvalidIndex uint32 = 0xFFFFFFFF

	frameHeaderSize = 20

	// MaxFramePayload is the largest payload the decoder accepts.
	// Anything bigger is rejected instead of allocated, so a bogus
	// length field cannot take down a 32-bit host.
	MaxFramePayload = 1<<31 - 1

	maxUint32 = 1<<32 - 1
)

// Frame is one message on the wire: a 20-byte header followed by the
// payload. Command frames carry a tag struct, data frames carry raw
// audio bytes for the playback stream identified by Channel.
type Frame struct {
	Channel  uint32
	OffsetHi uint32
	OffsetLo uint32
	Flags    uint32
	Payload  []byte
}

// IsCommand reports whether the frame belongs to the command channel.
func (f *Frame) IsCommand() bool {
	return f.Channel == CommandChannel
}

// commandFrame wraps a serialized tag struct in a command frame.
func commandFrame(t *TagStruct) (*Frame, error) {
	payload, err := t.Bytes()
	if err != nil {
		return nil, err
	}
	return &Frame{
		Channel: CommandChannel,
		Payload: payload,
	}, nil
}

// dataFrame wraps audio bytes for the given stream channel.
func dataFrame(channel uint32, data []byte) *Frame {
	return &Frame{
		Channel: channel,
		Payload: data,
	}
}

// appendTo serializes the frame. Header and payload land in one
// contiguous buffer so a single Write keeps them together on the wire.
func (f *Frame) appendTo(dst []byte) ([]byte, error) {
	if uint64(len(f.Payload)) > maxUint32 {
		return nil, &ProtocolError{Kind: ProtoPayloadTooLarge}
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(f.Payload)))
	dst = binary.BigEndian.AppendUint32(dst, f.Channel)
	dst = binary.BigEndian.AppendUint32(dst, f.OffsetHi)
	dst = binary.BigEndian.AppendUint32(dst, f.OffsetLo)
	dst = binary.BigEndian.AppendUint32(dst, f.Flags)
	return append(dst, f.Payload...), nil
}

// FrameDecoder reassembles frames from an arbitrarily chunked byte
// stream. Push may be called with any amount of data, including one
// byte at a time; each complete frame is emitted exactly once.
type FrameDecoder struct {
	header [frameHeaderSize]byte
	have   int

	frame *Frame // header parsed, collecting payload
	need  int
}

// Push consumes p and returns every frame completed by it.
func (d *FrameDecoder) Push(p []byte) ([]*Frame, error) {
	var frames []*Frame
	for len(p) > 0 {
		if d.frame == nil {
			n := copy(d.header[d.have:], p)
			d.have += n
			p = p[n:]
			if d.have < frameHeaderSize {
				break
			}
			if err := d.parseHeader(); err != nil {
				return frames, err
			}
		}
		n := len(d.frame.Payload)
		take := d.need - n
		if take > len(p) {
			take = len(p)
		}
		d.frame.Payload = append(d.frame.Payload, p[:take]...)
		p = p[take:]
		if len(d.frame.Payload) == d.need {
			frames = append(frames, d.frame)
			d.frame = nil
			d.have = 0
		}
	}
	return frames, nil
}

func (d *FrameDecoder) parseHeader() error {
	length := binary.BigEndian.Uint32(d.header[0:])
	if length > MaxFramePayload {
		return &ProtocolError{Kind: ProtoPayloadTooLarge}
	}
	d.frame = &Frame{
		Channel:  binary.BigEndian.Uint32(d.header[4:]),
		OffsetHi: binary.BigEndian.Uint32(d.header[8:]),
		OffsetLo: binary.BigEndian.Uint32(d.header[12:]),
		Flags:    binary.BigEndian.Uint32(d.header[16:]),
		Payload:  make([]byte, 0, length),
	}
	d.need = int(length)
	return nil
}
