package plugins

import (
	"io"

	"github.com/gopxl/beep/flac"

	"github.com/mx-silva/phonond/internal/decoder"
	"github.com/mx-silva/phonond/internal/stream"
)

// NewFLACPlugin builds the flac decoder plugin. FLAC's seek table needs
// random access, so this is the plugin that exercises the file-branch's
// FileDecode path and the stream-ownership transfer it entails
// (spec.md §4.4 file branch, step a).
func NewFLACPlugin() *decoder.Plugin {
	return &decoder.Plugin{
		Name:      "flac",
		Types:     decoder.StreamTypeURL | decoder.StreamTypeFile,
		Suffixes:  []string{"flac"},
		MIMETypes: []string{"audio/flac", "audio/x-flac"},

		StreamDecode: func(ctx *decoder.Context, in stream.InputStream) error {
			s, format, err := flac.Decode(stream.AsReadSeekCloser(in))
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return runBeepStream(ctx, s, format)
		},

		FileDecode: func(ctx *decoder.Context, path string, f io.ReadSeekCloser) error {
			s, format, err := flac.Decode(f)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return runBeepStream(ctx, s, format)
		},
	}
}
