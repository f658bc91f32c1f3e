package stream

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a library-relative song path would
// resolve outside the configured library root.
var ErrPathEscape = errors.New("stream: song path escapes library root")

// ErrPathTooLong is returned when a resolved path exceeds the configured
// maximum length.
var ErrPathTooLong = errors.New("stream: resolved path exceeds maximum length")

// Song is a reference to a track, either a path relative to the library
// root or an absolute URL. IsFile is total: a non-empty URL always means
// the song is a URL song, regardless of Path.
type Song struct {
	Path string
	URL  string
}

// IsFile reports whether this song resolves to a local library path.
func (s Song) IsFile() bool {
	return s.URL == ""
}

// Transport computes the string the worker hands to the input-stream
// layer: the resolved absolute path for file songs, or the URL verbatim
// for URL songs. libraryRoot and maxPathLen are ignored for URL songs.
func (s Song) Transport(libraryRoot string, maxPathLen int) (string, error) {
	if !s.IsFile() {
		return s.URL, nil
	}

	root := filepath.Clean(libraryRoot)
	abs := filepath.Clean(filepath.Join(root, s.Path))

	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	if maxPathLen > 0 && len(abs) > maxPathLen {
		return "", ErrPathTooLong
	}
	return abs, nil
}
