package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeSinkWritesToCommandStdin(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "out.raw")
	s, err := NewPipeSink(Config{Options: map[string]string{
		"command": "cat > " + outFile,
	}})
	require.NoError(t, err)

	format := AudioFormat{SampleRate: 44100, Channels: 2, Format: SampleFormatS16}
	got, err := s.Open(format)
	require.NoError(t, err)
	assert.Equal(t, format, got)
	assert.Equal(t, 4096, s.MaxChunk())

	payload := make([]byte, 16)
	n, err := s.Play(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	require.NoError(t, s.Close())

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestPipeSinkRequiresCommandOption(t *testing.T) {
	_, err := NewPipeSink(Config{})
	assert.Error(t, err)
}
