package sink

import "fmt"

// SampleFormat is the PCM sample encoding a decoder plugin produces and
// a sink consumes. Only signed 16/24/32-bit integer formats are
// modelled: there is no 8-bit path because none of the four decoder
// plugins ever produces 8-bit PCM, and no 32-bit float path because
// beep's speaker layer always resamples down to signed integer PCM
// before output.
type SampleFormat int

const (
	SampleFormatS16 SampleFormat = iota
	SampleFormatS24
	SampleFormatS32
)

// Bytes returns the width of one sample in this format, in bytes.
func (f SampleFormat) Bytes() int {
	switch f {
	case SampleFormatS16:
		return 2
	case SampleFormatS24:
		return 3
	case SampleFormatS32:
		return 4
	default:
		return 2
	}
}

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatS16:
		return "S16"
	case SampleFormatS24:
		return "S24"
	case SampleFormatS32:
		return "S32"
	default:
		return fmt.Sprintf("SampleFormat(%d)", int(f))
	}
}

// AudioFormat describes the PCM stream a decoder hands to a sink: sample
// rate, channel count and sample encoding. It is the Go analogue of
// MPD's audio_format struct.
type AudioFormat struct {
	SampleRate int
	Channels   int
	Format     SampleFormat
}

// FrameSize is the byte width of one sample across all channels — the
// unit a sink's write_size must round down to a multiple of, per
// spec.md's frame-alignment invariant.
func (f AudioFormat) FrameSize() int {
	return f.Format.Bytes() * f.Channels
}

func (f AudioFormat) String() string {
	return fmt.Sprintf("%dHz:%s:%dch", f.SampleRate, f.Format, f.Channels)
}
