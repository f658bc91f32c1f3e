package control

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mx-silva/phonond/internal/stream"
)

func TestControlStateLatchSongCopiesNextToCurrent(t *testing.T) {
	s := NewControlState()
	s.SetNextSong(stream.Song{Path: "a.flac"})

	got := s.LatchSong()

	assert.Equal(t, stream.Song{Path: "a.flac"}, got)
	assert.Equal(t, stream.Song{Path: "a.flac"}, s.CurrentSong())
}

func TestControlStateLatchSongIgnoresLaterNextSongChanges(t *testing.T) {
	s := NewControlState()
	s.SetNextSong(stream.Song{Path: "a.flac"})
	s.LatchSong()

	s.SetNextSong(stream.Song{Path: "b.flac"})

	assert.Equal(t, stream.Song{Path: "a.flac"}, s.CurrentSong())
	assert.Equal(t, stream.Song{Path: "b.flac"}, s.NextSong())
}

func TestControlStateDefaultsToStop(t *testing.T) {
	s := NewControlState()
	assert.Equal(t, StateStop, s.State())
	assert.Equal(t, CommandNone, s.Command())
	assert.Equal(t, ErrorNone, s.Error())
}

func TestControlStateSeekFields(t *testing.T) {
	s := NewControlState()
	s.SetSeekable(true)
	s.SetSeekWhere(0)

	assert.True(t, s.Seekable())
	assert.NoError(t, s.SeekError())

	s.SetSeekError(assert.AnError)
	assert.Equal(t, assert.AnError, s.SeekError())
}
