package decoder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mx-silva/phonond/internal/control"
	"github.com/mx-silva/phonond/internal/sink"
	"github.com/mx-silva/phonond/internal/stream"
)

// fakeStream is a minimal in-memory InputStream for dispatch tests: it
// is ready from construction and never blocks in the readiness loop.
type fakeStream struct {
	mime     string
	seekable bool
	closed   int
	body     *bytes.Reader
}

func newFakeStream(mime string) *fakeStream {
	return &fakeStream{mime: mime, body: bytes.NewReader([]byte("data"))}
}

func (s *fakeStream) Ready() bool            { return true }
func (s *fakeStream) Seekable() bool         { return s.seekable }
func (s *fakeStream) MIME() string           { return s.mime }
func (s *fakeStream) Size() (int64, bool)    { return int64(s.body.Len()), true }
func (s *fakeStream) Buffer() (int, error)   { return 0, nil }
func (s *fakeStream) Read(p []byte) (int, error) { return s.body.Read(p) }
func (s *fakeStream) Seek(offset int64) error {
	_, err := s.body.Seek(offset, io.SeekStart)
	return err
}
func (s *fakeStream) Close() error { s.closed++; return nil }

// fakeOpener always returns a pre-built fakeStream for the test to
// inspect after dispatch.
type fakeOpener struct {
	s   *fakeStream
	err error
}

func (o *fakeOpener) Open(ctx context.Context, song stream.Song, transport string) (stream.InputStream, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.s, nil
}

// fakeSink is a no-op sink that records what it was asked to do.
type fakeSink struct {
	opened  bool
	written [][]byte
}

func (s *fakeSink) Open(format sink.AudioFormat) (sink.AudioFormat, error) {
	s.opened = true
	return format, nil
}
func (s *fakeSink) Play(data []byte) (int, error) {
	s.written = append(s.written, append([]byte(nil), data...))
	return len(data), nil
}
func (s *fakeSink) MaxChunk() int { return 4096 }
func (s *fakeSink) Close() error  { return nil }

func newWorker(t *testing.T, in *fakeStream, registerPlugins func(r *Registry)) (*Worker, *fakeOpener) {
	t.Helper()
	reg := NewRegistry()
	if registerPlugins != nil {
		registerPlugins(reg)
	}
	opener := &fakeOpener{s: in}
	w := &Worker{
		State:       control.NewControlState(),
		Registry:    reg,
		Opener:      opener,
		Sink:        &fakeSink{},
		LibraryRoot: t.TempDir(),
		MaxPathLen:  4096,
	}
	return w, opener
}

func samplePlugin(name string, types StreamTypes, suffixes, mimes []string, invoked *bool, decodeErr error) *Plugin {
	decode := func(ctx *Context, in stream.InputStream) error {
		*invoked = true
		return decodeErr
	}
	return &Plugin{
		Name:         name,
		Types:        types,
		Suffixes:     suffixes,
		MIMETypes:    mimes,
		StreamDecode: decode,
	}
}

// S1 — File, suffix dispatch, success via FileDecode; input stream is
// closed before the plugin runs (ownership transfer).
func TestWorkerFileSuffixDispatchSuccess(t *testing.T) {
	var closedBeforeInvoke bool
	var invoked bool

	in := newFakeStream("")
	w, _ := newWorker(t, in, func(r *Registry) {
		r.Register(&Plugin{
			Name:     "flac",
			Types:    StreamTypeFile,
			Suffixes: []string{"flac"},
			FileDecode: func(ctx *Context, path string, f io.ReadSeekCloser) error {
				invoked = true
				closedBeforeInvoke = in.closed == 1
				return nil
			},
		})
	})

	require.NoError(t, writeTempFile(w.LibraryRoot, "a.flac"))
	w.State.SetNextSong(stream.Song{Path: "a.flac"})
	w.State.SetCommand(control.CommandStart)

	w.decodeStart(context.Background())

	assert.True(t, invoked)
	assert.True(t, closedBeforeInvoke)
	assert.Equal(t, control.ErrorNone, w.State.Error())
	assert.Equal(t, control.StateStop, w.State.State())
	assert.Equal(t, control.CommandNone, w.State.Command())
}

// S2 — URL, MIME dispatch selects the matching plugin; input closed
// after stream_decode runs.
func TestWorkerURLMIMEDispatch(t *testing.T) {
	var invoked bool
	in := newFakeStream("audio/mpeg")
	w, _ := newWorker(t, in, func(r *Registry) {
		r.Register(samplePlugin("mp3", StreamTypeURL, []string{"mp3"}, []string{"audio/mpeg"}, &invoked, nil))
	})

	w.State.SetNextSong(stream.Song{URL: "http://h/s"})
	w.State.SetCommand(control.CommandStart)

	w.decodeStart(context.Background())

	assert.True(t, invoked)
	assert.Equal(t, 1, in.closed)
	assert.Equal(t, control.ErrorNone, w.State.Error())
}

// S3 — URL, no MIME, suffix fallback selects vorbis.
func TestWorkerURLSuffixFallback(t *testing.T) {
	var mp3Invoked, vorbisInvoked bool
	in := newFakeStream("")
	w, _ := newWorker(t, in, func(r *Registry) {
		r.Register(samplePlugin("mp3", StreamTypeURL, []string{"mp3"}, []string{"audio/mpeg"}, &mp3Invoked, nil))
		r.Register(samplePlugin("vorbis", StreamTypeURL, []string{"ogg"}, []string{"audio/ogg"}, &vorbisInvoked, nil))
	})

	w.State.SetNextSong(stream.Song{URL: "http://h/stream.ogg"})
	w.State.SetCommand(control.CommandStart)

	w.decodeStart(context.Background())

	assert.False(t, mp3Invoked)
	assert.True(t, vorbisInvoked)
	assert.Equal(t, control.ErrorNone, w.State.Error())
}

// S4 — URL, no MIME, no suffix match: mp3 safety net invoked by name.
func TestWorkerURLMP3SafetyNet(t *testing.T) {
	var mp3Invoked bool
	in := newFakeStream("")
	w, _ := newWorker(t, in, func(r *Registry) {
		r.Register(samplePlugin("mp3", StreamTypeURL, []string{"mp3"}, []string{"audio/mpeg"}, &mp3Invoked, nil))
	})

	w.State.SetNextSong(stream.Song{URL: "http://h/stream"})
	w.State.SetCommand(control.CommandStart)

	w.decodeStart(context.Background())

	assert.True(t, mp3Invoked)
	assert.Equal(t, control.ErrorNone, w.State.Error())
}

// S5 — STOP during readiness aborts before any plugin runs, no error.
func TestWorkerStopDuringReadinessAbortsCleanly(t *testing.T) {
	var invoked bool
	blocking := &blockingStream{fakeStream: newFakeStream("audio/mpeg")}
	w, _ := newWorker(t, blocking.fakeStream, func(r *Registry) {
		r.Register(samplePlugin("mp3", StreamTypeURL, []string{"mp3"}, []string{"audio/mpeg"}, &invoked, nil))
	})
	w.Opener = blockingOpener{blocking}

	w.State.SetNextSong(stream.Song{URL: "http://h/s"})
	w.State.SetCommand(control.CommandStart)

	done := make(chan struct{})
	go func() {
		w.decodeStart(context.Background())
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	w.State.SetCommand(control.CommandStop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("decodeStart did not return after STOP during readiness")
	}

	assert.False(t, invoked)
	assert.Equal(t, control.ErrorNone, w.State.Error())
	assert.Equal(t, 1, blocking.closed)
}

// blockingStream never becomes Ready on its own, so the readiness loop
// spins until the test injects STOP.
type blockingStream struct {
	*fakeStream
}

func (s *blockingStream) Ready() bool { return false }

type blockingOpener struct{ s *blockingStream }

func (o blockingOpener) Open(ctx context.Context, song stream.Song, transport string) (stream.InputStream, error) {
	return o.s, nil
}

// Unknown type: no plugin claims the stream, even the absent fallback.
func TestWorkerUnknownTypeWhenNothingClaims(t *testing.T) {
	in := newFakeStream("")
	w, _ := newWorker(t, in, nil)

	w.State.SetNextSong(stream.Song{URL: "http://h/stream"})
	w.State.SetCommand(control.CommandStart)

	w.decodeStart(context.Background())

	assert.Equal(t, control.ErrorUnknownType, w.State.Error())
}

func TestWorkerDecodeErrorClassifiedAsFileError(t *testing.T) {
	var invoked bool
	in := newFakeStream("audio/mpeg")
	w, _ := newWorker(t, in, func(r *Registry) {
		r.Register(samplePlugin("mp3", StreamTypeURL, []string{"mp3"}, []string{"audio/mpeg"}, &invoked, errors.New("boom")))
	})

	w.State.SetNextSong(stream.Song{URL: "http://h/s"})
	w.State.SetCommand(control.CommandStart)

	w.decodeStart(context.Background())

	assert.True(t, invoked)
	assert.Equal(t, control.ErrorFile, w.State.Error())
}

func writeTempFile(dir, name string) error {
	return os.WriteFile(dir+"/"+name, []byte("x"), 0o644)
}
