package stream

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileIsImmediatelyReadyAndSeekable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	in, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = in.Close() }()

	assert.True(t, in.Ready())
	assert.True(t, in.Seekable())
	size, ok := in.Size()
	assert.True(t, ok)
	assert.Equal(t, int64(len("hello world")), size)

	buf := make([]byte, 5)
	n, err := in.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	require.NoError(t, in.Seek(6))
	rest, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "world", string(rest))
}

func TestOpenFileMissingFileErrors(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
