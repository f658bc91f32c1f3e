package stream

import "errors"

var (
	// errUnsupportedSeekWhence is returned by the io.Seeker adapter for
	// any whence other than io.SeekStart; InputStream.Seek is always
	// absolute.
	errUnsupportedSeekWhence = errors.New("stream: only io.SeekStart is supported")

	// ErrNotSeekable is returned by Seek when the underlying stream does
	// not support byte-offset seeking.
	ErrNotSeekable = errors.New("stream: not seekable")
)
