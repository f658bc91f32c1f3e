package plugins

import (
	"github.com/gopxl/beep/mp3"

	"github.com/mx-silva/phonond/internal/decoder"
	"github.com/mx-silva/phonond/internal/stream"
)

// NewMP3Plugin builds the mp3 decoder plugin. It is the registry's
// by-name safety net (spec.md §4.4c): when a URL stream misadvertises
// its MIME type and has no recognisable suffix, dispatch falls back to
// this plugin by name, so its registered name must stay exactly "mp3".
func NewMP3Plugin() *decoder.Plugin {
	return &decoder.Plugin{
		Name:      "mp3",
		Types:     decoder.StreamTypeURL | decoder.StreamTypeFile,
		Suffixes:  []string{"mp3", "mp2"},
		MIMETypes: []string{"audio/mpeg", "audio/mp3", "audio/mpg"},

		StreamDecode: func(ctx *decoder.Context, in stream.InputStream) error {
			s, format, err := mp3.Decode(stream.AsReadCloser(in))
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return runBeepStream(ctx, s, format)
		},
	}
}
