package decoder

import (
	"io"

	"github.com/mx-silva/phonond/internal/stream"
)

// StreamTypes is a bitmask of the input kinds a plugin can accept,
// mirroring MPD's DECODER_PLUGIN stream_types field (INPUT_STREAM vs
// file-path capable).
type StreamTypes int

const (
	StreamTypeURL StreamTypes = 1 << iota
	StreamTypeFile
)

// Has reports whether t includes all bits of want.
func (t StreamTypes) Has(want StreamTypes) bool { return t&want == want }

// TryDecodeFunc is a plugin's cheap acceptance probe: read only as much
// of in as needed to recognise the format (a magic number, a header),
// without committing to decoding it. It must leave in positioned so
// that a subsequent StreamDecode/FileDecode can start over — plugins
// achieve this via the wrapped stream's own buffering rather than by
// seeking.
type TryDecodeFunc func(in stream.InputStream) bool

// StreamDecodeFunc runs the full decode loop against an InputStream (the
// URL branch). ctx is the only way the plugin talks to the rest of the
// system: committing the output format, writing frames, checking for
// pending commands.
type StreamDecodeFunc func(ctx *Context, in stream.InputStream) error

// FileDecodeFunc runs the full decode loop against an already-opened
// file handle (the file branch). Plugins that need random access
// (FLAC's seek tables) declare this instead of, or in addition to,
// StreamDecode; the worker prefers FileDecode for local files when
// both are present.
type FileDecodeFunc func(ctx *Context, path string, f io.ReadSeekCloser) error

// Plugin is one codec's full descriptor, the Go analogue of MPD's
// decoder_plugin struct.
type Plugin struct {
	Name    string
	Types   StreamTypes
	Suffixes []string
	MIMETypes []string

	TryDecode    TryDecodeFunc
	StreamDecode StreamDecodeFunc
	FileDecode   FileDecodeFunc
}
