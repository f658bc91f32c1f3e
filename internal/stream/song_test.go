package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongIsFile(t *testing.T) {
	assert.True(t, Song{Path: "a.mp3"}.IsFile())
	assert.False(t, Song{URL: "http://h/a.mp3"}.IsFile())
}

func TestSongTransportURLPassesThrough(t *testing.T) {
	s := Song{URL: "http://h/a.mp3"}
	transport, err := s.Transport("/lib", 4096)
	require.NoError(t, err)
	assert.Equal(t, "http://h/a.mp3", transport)
}

func TestSongTransportResolvesUnderLibraryRoot(t *testing.T) {
	s := Song{Path: "artist/album/track.flac"}
	transport, err := s.Transport("/lib", 4096)
	require.NoError(t, err)
	assert.Equal(t, "/lib/artist/album/track.flac", transport)
}

func TestSongTransportRejectsEscapingPath(t *testing.T) {
	s := Song{Path: "../../etc/passwd"}
	_, err := s.Transport("/lib", 4096)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathEscape)
}

func TestSongTransportRejectsOverlongPath(t *testing.T) {
	s := Song{Path: "a.flac"}
	_, err := s.Transport("/lib", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathTooLong)
}
