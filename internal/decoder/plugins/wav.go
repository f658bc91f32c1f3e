package plugins

import (
	"github.com/gopxl/beep/wav"

	"github.com/mx-silva/phonond/internal/decoder"
	"github.com/mx-silva/phonond/internal/stream"
)

// NewWAVPlugin builds the wav decoder plugin. WAV is PCM-in-a-container
// and does not need a seek table, so it only offers StreamDecode —
// the worker falls back to it for both the URL and file branches.
func NewWAVPlugin() *decoder.Plugin {
	return &decoder.Plugin{
		Name:      "wav",
		Types:     decoder.StreamTypeURL | decoder.StreamTypeFile,
		Suffixes:  []string{"wav", "wave"},
		MIMETypes: []string{"audio/wav", "audio/wave", "audio/x-wav"},

		StreamDecode: func(ctx *decoder.Context, in stream.InputStream) error {
			s, format, err := wav.Decode(stream.AsReadCloser(in))
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return runBeepStream(ctx, s, format)
		},
	}
}
