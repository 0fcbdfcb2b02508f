// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

// ChannelsMax is the most channels a map or volume may carry.
const ChannelsMax = 32

// ChannelPosition is a speaker position code. The ordinals match
// pa_channel_position_t.
type ChannelPosition uint8

const (
	PositionMono ChannelPosition = iota
	PositionFrontLeft
	PositionFrontRight
	PositionFrontCenter
	PositionRearCenter
	PositionRearLeft
	PositionRearRight
	PositionLfe
	PositionFrontLeftOfCenter
	PositionFrontRightOfCenter
	PositionSideLeft
	PositionSideRight
	PositionAux0
	PositionAux1
	PositionAux2
	PositionAux3
	PositionAux4
	PositionAux5
	PositionAux6
	PositionAux7
	PositionAux8
	PositionAux9
	PositionAux10
	PositionAux11
	PositionAux12
	PositionAux13
	PositionAux14
	PositionAux15
	PositionAux16
	PositionAux17
	PositionAux18
	PositionAux19
	PositionAux20
	PositionAux21
	PositionAux22
	PositionAux23
	PositionAux24
	PositionAux25
	PositionAux26
	PositionAux27
	PositionAux28
	PositionAux29
	PositionAux30
	PositionAux31
	PositionTopCenter
	PositionTopFrontLeft
	PositionTopFrontRight
	PositionTopFrontCenter
	PositionTopRearLeft
	PositionTopRearRight
	PositionTopRearCenter

	// PositionInvalid is the invalid marker value.
	PositionInvalid ChannelPosition = 0xFF
)

// MonoMap returns the channel map of a one-channel stream.
func MonoMap() ChannelMap {
	return ChannelMap{PositionMono}
}

// StereoMap returns the standard front left/right map.
func StereoMap() ChannelMap {
	return ChannelMap{PositionFrontLeft, PositionFrontRight}
}

// DefaultMap returns a usable map for the given channel count: mono
// and stereo get their standard maps, anything else is filled with
// aux positions.
func DefaultMap(channels uint8) ChannelMap {
	switch channels {
	case 1:
		return MonoMap()
	case 2:
		return StereoMap()
	}
	if channels > ChannelsMax {
		channels = ChannelsMax
	}
	m := make(ChannelMap, channels)
	for i := range m {
		m[i] = PositionAux0 + ChannelPosition(i)
	}
	return m
}

// VolumeNormal is the 100% volume value; per-channel volumes are
// expressed relative to it.
const VolumeNormal Volume = 0x10000

// VolumeMuted is the silent volume value.
const VolumeMuted Volume = 0

// FlatVolume returns a per-channel volume with every channel at v.
func FlatVolume(channels uint8, v Volume) ChannelVolume {
	if channels > ChannelsMax {
		channels = ChannelsMax
	}
	cv := make(ChannelVolume, channels)
	for i := range cv {
		cv[i] = v
	}
	return cv
}
