package decoder

import (
	"context"
	"errors"
	"log"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/mx-silva/phonond/internal/control"
	"github.com/mx-silva/phonond/internal/sink"
	"github.com/mx-silva/phonond/internal/stream"
)

// Worker is the singleton decoder task: spec.md §4.4's IDLE/DECODING
// state machine, driven entirely by the shared ControlState.
type Worker struct {
	State    *control.ControlState
	Registry *Registry
	Opener   stream.Opener
	Sink     sink.Sink

	LibraryRoot string
	MaxPathLen  int
	Debug       bool
}

func (w *Worker) logf(format string, args ...interface{}) {
	if !w.Debug {
		return
	}
	log.Printf("[WORKER] "+format, args...)
}

// Run drives the IDLE/DECODING loop until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		switch w.State.Command() {
		case control.CommandStart, control.CommandSeek:
			w.decodeStart(ctx)
		case control.CommandStop:
			w.State.SetCommand(control.CommandNone)
			w.State.NotifyController.Signal()
		default:
			if err := w.State.NotifyWorker.WaitContext(ctx); err != nil {
				return
			}
			w.State.NotifyController.Signal()
		}
	}
}

// decodeStart implements spec.md §4.4's nine-step decodeStart
// protocol.
func (w *Worker) decodeStart(ctx context.Context) {
	// 1. Latch song, compute transport string.
	song := w.State.LatchSong()
	transport, err := song.Transport(w.LibraryRoot, w.MaxPathLen)
	if err != nil {
		w.logf("transport resolution failed: %v", err)
		w.State.SetError(control.ErrorFile)
		w.finish()
		return
	}

	// 2. Open input stream.
	in, err := w.Opener.Open(ctx, song, transport)
	if err != nil {
		w.logf("open failed for %q: %v", transport, err)
		w.State.SetError(control.ErrorFile)
		w.finish()
		return
	}

	closeStream := true
	defer func() {
		if closeStream {
			_ = in.Close()
		}
	}()

	// 3. Announce start.
	w.State.SetState(control.StateStart)
	w.State.SetCommand(control.CommandNone)
	w.State.NotifyController.Signal()

	// 4. Await readiness.
	for !in.Ready() {
		if w.State.Command() != control.CommandNone {
			w.logf("cancelled during readiness wait")
			w.State.SetError(control.ErrorNone)
			w.finish()
			return
		}
		if _, berr := in.Buffer(); berr != nil {
			w.logf("buffer error: %v", berr)
			w.State.SetError(control.ErrorFile)
			w.finish()
			return
		}
	}

	// 5. Propagate seekability.
	w.State.SetSeekable(in.Seekable())

	// 6. Second STOP check.
	if w.State.Command() == control.CommandStop {
		w.State.SetError(control.ErrorNone)
		w.finish()
		return
	}

	// 7. Dispatch.
	var dispatchErr error
	if song.IsFile() {
		dispatchErr = w.dispatchFile(ctx, transport, in, &closeStream)
	} else {
		dispatchErr = w.dispatchURL(ctx, in, transport)
	}

	// 8. Classify error.
	switch {
	case errors.Is(dispatchErr, errUnknownType):
		if suggestion, ok := w.Registry.SuggestSuffix(suffixOf(transport)); ok {
			w.logf("unknown type for %q (did you mean .%s?)", transport, suggestion)
		} else {
			w.logf("unknown type for %q", transport)
		}
		w.State.SetError(control.ErrorUnknownType)
	case dispatchErr == nil, errors.Is(dispatchErr, ErrCancelled):
		w.State.SetError(control.ErrorNone)
	default:
		w.logf("decode error: %v", dispatchErr)
		w.State.SetError(control.ErrorFile)
	}

	// 9. Cleanup (stream close handled by defer/transfer).
	w.finish()
}

func (w *Worker) finish() {
	w.State.SetState(control.StateStop)
	w.State.SetCommand(control.CommandNone)
}

// dispatchURL implements spec.md §4.4's URL-branch dispatch: MIME
// probe, then suffix probe only if the MIME probe attempted nothing,
// then the mp3 safety net only if neither attempted anything.
func (w *Worker) dispatchURL(ctx context.Context, in stream.InputStream, rawURL string) error {
	attempted := false

	for p := range w.Registry.ByMIME(in.MIME()) {
		if !p.Types.Has(StreamTypeURL) || p.StreamDecode == nil {
			continue
		}
		if p.TryDecode != nil && !p.TryDecode(in) {
			continue
		}
		attempted = true
		dctx := NewContext(w.State, w.Sink)
		return p.StreamDecode(dctx, in)
	}

	if !attempted {
		for p := range w.Registry.BySuffix(suffixOf(rawURL)) {
			if !p.Types.Has(StreamTypeURL) || p.StreamDecode == nil {
				continue
			}
			if p.TryDecode != nil && !p.TryDecode(in) {
				continue
			}
			attempted = true
			dctx := NewContext(w.State, w.Sink)
			return p.StreamDecode(dctx, in)
		}
	}

	if !attempted {
		if p, ok := w.Registry.ByName("mp3"); ok && p.StreamDecode != nil {
			dctx := NewContext(w.State, w.Sink)
			return p.StreamDecode(dctx, in)
		}
	}

	return errUnknownType
}

// dispatchFile implements spec.md §4.4's file-branch dispatch: suffix
// probe only, preferring FileDecode (which transfers stream ownership)
// over StreamDecode when both are offered.
func (w *Worker) dispatchFile(ctx context.Context, path string, in stream.InputStream, closeStream *bool) error {
	for p := range w.Registry.BySuffix(suffixOf(path)) {
		if !p.Types.Has(StreamTypeFile) {
			continue
		}
		if p.TryDecode != nil && !p.TryDecode(in) {
			continue
		}

		if p.FileDecode != nil {
			// Ownership transfer: close the worker's stream before
			// reopening the path as a fresh handle for the plugin.
			*closeStream = false
			if err := in.Close(); err != nil {
				w.logf("close before file_decode: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			dctx := NewContext(w.State, w.Sink)
			defer func() { _ = f.Close() }()
			return p.FileDecode(dctx, path, f)
		}

		if p.StreamDecode != nil {
			dctx := NewContext(w.State, w.Sink)
			return p.StreamDecode(dctx, in)
		}
	}
	return errUnknownType
}

// suffixOf extracts a lowercase, dot-free filename suffix from a path
// or URL, stripping any query string first.
func suffixOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	ext := path.Ext(raw)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
