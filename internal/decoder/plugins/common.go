// Package plugins provides the decoder plugins registered with the
// daemon's decoder.Registry: thin adapters over github.com/gopxl/beep's
// codec subpackages that satisfy decoder.Plugin's StreamDecode/
// FileDecode contract.
package plugins

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/mx-silva/phonond/internal/control"
	"github.com/mx-silva/phonond/internal/decoder"
	"github.com/mx-silva/phonond/internal/sink"
)

// samplesPerChunk bounds how many beep samples are pulled and encoded
// per WriteFrames call, and therefore how often Cancelled/Command are
// polled — spec.md §5 asks for roughly once per output frame buffer.
const samplesPerChunk = 2048

// runBeepStream is the decode loop every plugin in this package shares:
// only the beep.Decode call that produces s and format differs between
// codecs. beep normalises every codec to interleaved stereo float64
// samples, so the PCM this emits is always 2-channel S16.
func runBeepStream(ctx *decoder.Context, s beep.StreamSeekCloser, format beep.Format) error {
	audioFormat := sink.AudioFormat{
		SampleRate: int(format.SampleRate),
		Channels:   2,
		Format:     sink.SampleFormatS16,
	}
	if _, err := ctx.OpenFormat(audioFormat); err != nil {
		return err
	}

	buf := make([][2]float64, samplesPerChunk)

	for {
		switch {
		case ctx.Command() == control.CommandSeek && ctx.Seekable():
			pos := format.SampleRate.N(ctx.SeekWhere())
			if err := s.Seek(pos); err != nil {
				return err
			}
			ctx.AckSeek()
		case ctx.Cancelled():
			// A SEEK against an unseekable stream falls through to here
			// and aborts the decode: Seekable was latched once from the
			// input stream at decodeStart, so there is no in-place seek
			// to honour and no way to re-dispatch mid-decode.
			return decoder.ErrCancelled
		}

		n, ok := s.Stream(buf)
		if n > 0 {
			if err := ctx.WriteFrames(encodeS16(buf[:n])); err != nil {
				return err
			}
		}
		if !ok {
			return s.Err()
		}
	}
}

// encodeS16 converts stereo float64 samples in [-1, 1] to interleaved
// little-endian signed 16-bit PCM.
func encodeS16(samples [][2]float64) []byte {
	out := make([]byte, 0, len(samples)*4)
	for _, s := range samples {
		out = append(out, s16le(s[0])...)
		out = append(out, s16le(s[1])...)
	}
	return out
}

func s16le(v float64) [2]byte {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	sample := int16(v * math.MaxInt16)
	return [2]byte{byte(sample), byte(sample >> 8)}
}
