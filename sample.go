// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import "fmt"

// SampleFormat identifies the PCM sample encoding of a stream. The
// ordinals match pa_sample_format_t.
type SampleFormat uint8

const (
	// SampleU8 is unsigned 8-bit PCM.
	SampleU8 SampleFormat = iota
	// SampleALaw is 8-bit a-law.
	SampleALaw
	// SampleULaw is 8-bit mu-law.
	SampleULaw
	// SampleS16LE is signed 16-bit PCM, little endian.
	SampleS16LE
	// SampleS16BE is signed 16-bit PCM, big endian.
	SampleS16BE
	// SampleFloat32LE is 32-bit IEEE float, little endian, -1.0 to 1.0.
	SampleFloat32LE
	// SampleFloat32BE is 32-bit IEEE float, big endian, -1.0 to 1.0.
	SampleFloat32BE
	// SampleS32LE is signed 32-bit PCM, little endian.
	SampleS32LE
	// SampleS32BE is signed 32-bit PCM, big endian.
	SampleS32BE
	// SampleS24LE is signed packed 24-bit PCM, little endian.
	SampleS24LE
	// SampleS24BE is signed packed 24-bit PCM, big endian.
	SampleS24BE
	// SampleS24In32LE is signed 24-bit PCM in the LSBs of 32-bit words, little endian.
	SampleS24In32LE
	// SampleS24In32BE is signed 24-bit PCM in the LSBs of 32-bit words, big endian.
	SampleS24In32BE

	// SampleInvalid is the invalid marker value.
	SampleInvalid SampleFormat = 0xFF
)

func (f SampleFormat) valid() bool {
	return f <= SampleS24In32BE || f == SampleInvalid
}

var sampleFormatNames = []string{
	"u8", "alaw", "ulaw", "s16le", "s16be", "float32le", "float32be",
	"s32le", "s32be", "s24le", "s24be", "s24-32le", "s24-32be",
}

func (f SampleFormat) String() string {
	if int(f) < len(sampleFormatNames) {
		return sampleFormatNames[f]
	}
	if f == SampleInvalid {
		return "invalid"
	}
	return fmt.Sprintf("sample format %d", uint8(f))
}

// ParseSampleFormat maps a format name as printed by String back to
// its SampleFormat.
func ParseSampleFormat(s string) (SampleFormat, error) {
	for i, name := range sampleFormatNames {
		if s == name {
			return SampleFormat(i), nil
		}
	}
	return SampleInvalid, fmt.Errorf("unknown sample format %q", s)
}

// FrameSize returns the byte size of one frame (one sample per
// channel), or 0 for formats without a fixed size.
func (s SampleSpec) FrameSize() int {
	var sample int
	switch s.Format {
	case SampleU8, SampleALaw, SampleULaw:
		sample = 1
	case SampleS16LE, SampleS16BE:
		sample = 2
	case SampleS24LE, SampleS24BE:
		sample = 3
	case SampleFloat32LE, SampleFloat32BE, SampleS32LE, SampleS32BE, SampleS24In32LE, SampleS24In32BE:
		sample = 4
	default:
		return 0
	}
	return sample * int(s.Channels)
}

// BytesPerSecond returns the data rate of the spec, or 0 for formats
// without a fixed frame size.
func (s SampleSpec) BytesPerSecond() int {
	return s.FrameSize() * int(s.Rate)
}
