package plugins

import (
	"github.com/gopxl/beep/vorbis"

	"github.com/mx-silva/phonond/internal/decoder"
	"github.com/mx-silva/phonond/internal/stream"
)

// NewVorbisPlugin builds the ogg/vorbis decoder plugin, the suffix-
// probe target in scenarios where a URL stream advertises no MIME type
// but ends in ".ogg" (spec.md S3).
func NewVorbisPlugin() *decoder.Plugin {
	return &decoder.Plugin{
		Name:      "vorbis",
		Types:     decoder.StreamTypeURL | decoder.StreamTypeFile,
		Suffixes:  []string{"ogg", "oga"},
		MIMETypes: []string{"audio/ogg", "audio/vorbis", "application/ogg"},

		StreamDecode: func(ctx *decoder.Context, in stream.InputStream) error {
			s, format, err := vorbis.Decode(stream.AsReadCloser(in))
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return runBeepStream(ctx, s, format)
		},
	}
}
