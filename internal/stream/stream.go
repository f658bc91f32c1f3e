// Package stream implements the uniform input-stream abstraction the
// decoder worker opens songs through: local files (ready immediately)
// and URLs (ready once transport metadata has been read).
package stream

import "io"

// InputStream is the capability set every stream variant exposes.
// Buffer blocks only briefly: it drives one step of readiness (for URL
// streams, reading more header or body bytes; for files, it is a no-op
// that always reports ready). Read may block until bytes are available.
type InputStream interface {
	// Ready reports whether transport-level metadata (MIME, size,
	// seekability) is known yet.
	Ready() bool

	// Seekable reports whether byte-offset seeks are supported. Only
	// meaningful once Ready is true.
	Seekable() bool

	// MIME returns the advertised content type, or "" if unknown or not
	// applicable (local files never report one).
	MIME() string

	// Size returns the stream's total size in bytes, if known.
	Size() (int64, bool)

	// Buffer performs one bounded, non-blocking step of progress toward
	// readiness (or, once ready, toward having more bytes available to
	// Read). It returns the number of bytes newly available, or a
	// negative... no: Go idiom returns (n, err); err != nil is the
	// I/O-failure case the spec calls a negative return.
	Buffer() (int, error)

	io.Reader
	io.Closer

	// Seek repositions the stream by absolute byte offset. Only valid
	// when Seekable reports true.
	Seek(offset int64) error
}

// AsReadCloser adapts an InputStream to io.ReadCloser for decoders that
// only need sequential reads (e.g. mp3, vorbis over a network stream).
func AsReadCloser(in InputStream) io.ReadCloser {
	return readCloser{in}
}

type readCloser struct{ InputStream }

// AsReadSeekCloser adapts an InputStream to io.ReadSeekCloser for
// decoders that need to seek within the stream (e.g. flac). If the
// underlying stream is not seekable, Seek returns an error at call time
// rather than failing the adaptation itself.
func AsReadSeekCloser(in InputStream) io.ReadSeekCloser {
	return readSeekCloser{in}
}

type readSeekCloser struct{ InputStream }

func (r readSeekCloser) Seek(offset int64, whence int) (int64, error) {
	if whence != io.SeekStart {
		return 0, errUnsupportedSeekWhence
	}
	if err := r.InputStream.Seek(offset); err != nil {
		return 0, err
	}
	return offset, nil
}
