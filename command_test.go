// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The ordinals are load-bearing: they must match the upstream
// pa_command_t enum or nothing interoperates. Spot-check the anchors
// around which the rest of the enum is laid out.
func TestCommandKindOrdinals(t *testing.T) {
	assert.EqualValues(t, 0, CommandError)
	assert.EqualValues(t, 2, CommandReply)
	assert.EqualValues(t, 3, CommandCreatePlaybackStream)
	assert.EqualValues(t, 8, CommandAuth)
	assert.EqualValues(t, 9, CommandSetClientName)
	assert.EqualValues(t, 18, CommandPlaySample)
	assert.EqualValues(t, 20, CommandGetServerInfo)
	assert.EqualValues(t, 35, CommandSubscribe)
	assert.EqualValues(t, 57, CommandGetRecordLatency)
	assert.EqualValues(t, 61, CommandRequest)
	assert.EqualValues(t, 66, CommandSubscribeEvent)
	assert.EqualValues(t, 86, CommandStarted)
	assert.EqualValues(t, 103, CommandRegisterMemfdShmid)
	assert.EqualValues(t, 104, commandMax)
}

func TestErrorKindOrdinals(t *testing.T) {
	assert.EqualValues(t, 0, ErrorOK)
	assert.EqualValues(t, 1, ErrorAccess)
	assert.EqualValues(t, 3, ErrorInvalid)
	assert.EqualValues(t, 5, ErrorNoEntity)
	assert.EqualValues(t, 17, ErrorVersion)
	assert.EqualValues(t, 26, ErrorBusy)
}

func TestSampleFormatOrdinals(t *testing.T) {
	assert.EqualValues(t, 0, SampleU8)
	assert.EqualValues(t, 3, SampleS16LE)
	assert.EqualValues(t, 5, SampleFloat32LE)
	assert.EqualValues(t, 12, SampleS24In32BE)
	assert.EqualValues(t, 0xFF, SampleInvalid)
}

func TestChannelPositionOrdinals(t *testing.T) {
	assert.EqualValues(t, 0, PositionMono)
	assert.EqualValues(t, 1, PositionFrontLeft)
	assert.EqualValues(t, 2, PositionFrontRight)
	assert.EqualValues(t, 7, PositionLfe)
	assert.EqualValues(t, 12, PositionAux0)
	assert.EqualValues(t, 43, PositionAux31)
	assert.EqualValues(t, 44, PositionTopCenter)
	assert.EqualValues(t, 50, PositionTopRearCenter)
	assert.EqualValues(t, 0xFF, PositionInvalid)
}

func TestAuthEncoding(t *testing.T) {
	cookie := []byte{1, 2, 3}
	ts := NewTagStruct()
	Auth{ProtocolVersion: 8, Cookie: cookie}.put(ts)

	v, err := ts.PopU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(8), v)
	b, err := ts.PopArbitrary()
	require.NoError(t, err)
	assert.Equal(t, cookie, b)
	assert.True(t, ts.IsEmpty())
}

func TestCommandHeaderRoundTrip(t *testing.T) {
	ts := NewTagStruct()
	putCommandHeader(ts, CommandGetServerInfo, 77)

	kind, tag, err := popCommandHeader(ts)
	require.NoError(t, err)
	assert.Equal(t, CommandGetServerInfo, kind)
	assert.Equal(t, uint32(77), tag)
}

func TestCommandHeaderRejectsUnknownCommand(t *testing.T) {
	ts := NewTagStruct()
	ts.PutU32(uint32(commandMax) + 5)
	ts.PutU32(1)

	_, _, err := popCommandHeader(ts)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProtoUnknownCommand, perr.Kind)
}

func TestCreatePlaybackStreamFieldOrder(t *testing.T) {
	req := CreatePlaybackStream{
		Name:       "music",
		SampleSpec: SampleSpec{Format: SampleFloat32LE, Channels: 1, Rate: 48000},
		ChannelMap: MonoMap(),
		SinkIndex:  InvalidIndex,
		SinkName:   "headphones",
		MaxLength:  1,
		Corked:     true,
		TLength:    2,
		Prebuf:     3,
		MinReq:     4,
		SyncID:     5,
		Volume:     ChannelVolume{VolumeNormal},
	}
	ts := NewTagStruct()
	req.put(ts)

	want := []Value{
		String{S: "music"},
		SampleSpec{Format: SampleFloat32LE, Channels: 1, Rate: 48000},
		MonoMap(),
		U32(InvalidIndex),
		String{S: "headphones"},
		U32(1),
		Bool(true),
		U32(2),
		U32(3),
		U32(4),
		U32(5),
		ChannelVolume{VolumeNormal},
	}
	for i, w := range want {
		v, err := ts.PopValue()
		require.NoError(t, err, "field %d", i)
		assert.Equal(t, w, v, "field %d", i)
	}
	assert.True(t, ts.IsEmpty())
}

func TestSetClientNameReplyToleratesEmptyBody(t *testing.T) {
	var rep SetClientNameReply
	require.NoError(t, rep.pop(NewTagStruct()))
	assert.Equal(t, InvalidIndex, rep.ClientIndex)
}

func TestPlaySampleEncodesNullSink(t *testing.T) {
	ts := NewTagStruct()
	PlaySample{SinkIndex: InvalidIndex, Volume: VolumeNormal, Name: "bell"}.put(ts)

	_, err := ts.PopU32()
	require.NoError(t, err)
	s, err := ts.PopString()
	require.NoError(t, err)
	assert.True(t, s.Null)
}

func TestServerEventClassification(t *testing.T) {
	assert.True(t, CommandRequest.isServerEvent())
	assert.True(t, CommandUnderflow.isServerEvent())
	assert.True(t, CommandSubscribeEvent.isServerEvent())
	assert.True(t, CommandStarted.isServerEvent())
	assert.False(t, CommandReply.isServerEvent())
	assert.False(t, CommandError.isServerEvent())
	assert.False(t, CommandAuth.isServerEvent())
}
