package decoder

import (
	"time"

	"github.com/mx-silva/phonond/internal/control"
	"github.com/mx-silva/phonond/internal/sink"
)

// Context is the decoder-side API spec.md leaves out of scope: the
// handful of calls a plugin's decode loop needs back into the worker —
// committing the output format, writing frames, and polling for a
// pending command. It is intentionally thin; everything codec-internal
// stays inside the plugin.
type Context struct {
	state *control.ControlState
	sink  sink.Sink
}

// NewContext builds a Context bound to one decode attempt's control
// state and output sink.
func NewContext(state *control.ControlState, snk sink.Sink) *Context {
	return &Context{state: state, sink: snk}
}

// Cancelled reports whether the controller has posted a command since
// the decode began. Plugins are required to check this at coarse
// granularity (spec.md §5: "once per output frame buffer") and return
// ErrCancelled promptly once it is true.
func (c *Context) Cancelled() bool {
	return c.state.Command() != control.CommandNone
}

// Command exposes the raw pending command word, for plugins capable of
// honouring SEEK in place (those with a native seek table) instead of
// unwinding on any non-NONE command.
func (c *Context) Command() control.Command {
	return c.state.Command()
}

// AckSeek clears the pending SEEK command once a plugin has honoured
// it, so the worker does not see it as a still-pending cancellation on
// the next poll.
func (c *Context) AckSeek() {
	c.state.SetCommand(control.CommandNone)
}

// Seekable reports the seekability the worker latched from the input
// stream at decodeStart.
func (c *Context) Seekable() bool { return c.state.Seekable() }

// SeekWhere is the controller's requested seek offset for a SEEK
// command, valid only while Cancelled reports a pending SEEK.
func (c *Context) SeekWhere() time.Duration { return c.state.SeekWhere() }

// OpenFormat opens the sink for the format the plugin decoded and
// returns the format actually in effect (the sink may downgrade it,
// e.g. S24 to S16). A successful open is the DECODE transition of
// spec.md §3 (MPD's analogue is decoder_initialized()): only once the
// plugin has committed a format is the worker actually decoding, as
// opposed to merely having been dispatched to a plugin.
func (c *Context) OpenFormat(format sink.AudioFormat) (sink.AudioFormat, error) {
	actual, err := c.sink.Open(format)
	if err != nil {
		return actual, err
	}
	c.state.SetState(control.StateDecode)
	return actual, nil
}

// WriteFrames submits frame-aligned PCM to the sink, retrying short
// writes until the whole span is accepted, the sink errors, or a
// pending command preempts the write.
func (c *Context) WriteFrames(data []byte) error {
	for len(data) > 0 {
		if c.Cancelled() {
			return ErrCancelled
		}
		chunk := data
		if max := c.sink.MaxChunk(); max > 0 && len(chunk) > max {
			chunk = chunk[:max]
		}
		n, err := c.sink.Play(chunk)
		if err != nil {
			return err
		}
		if n == 0 {
			return sink.ErrWrite
		}
		data = data[n:]
	}
	return nil
}
