package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// portaudio's Initialize/Terminate pair is process-global and not
// reentrant-safe to call more than once without a matching Terminate in
// between (the teacher's cmd/audio/test.go calls them unconditionally
// around a single stream). A daemon that can open and close several
// sinks over its lifetime needs a reference count around that pair,
// the same shape as AoOutputPlugin.cxx's ao_output_ref/AoInit.
var (
	paMu    sync.Mutex
	paCount int
)

func paAcquire() error {
	paMu.Lock()
	defer paMu.Unlock()
	if paCount == 0 {
		if err := portaudio.Initialize(); err != nil {
			return fmt.Errorf("%w: portaudio initialize: %v", ErrOpen, err)
		}
	}
	paCount++
	return nil
}

func paRelease() {
	paMu.Lock()
	defer paMu.Unlock()
	paCount--
	if paCount <= 0 {
		paCount = 0
		_ = portaudio.Terminate()
	}
}

// PortaudioSink drives a live output device through the portaudio
// binding. It bridges spec.md's push-style Play(bytes) contract onto
// portaudio's pull-style callback by holding decoded frames in a small
// ring buffer that the callback drains; an underrun plays silence
// rather than blocking the audio thread.
type PortaudioSink struct {
	deviceName string
	latency    time.Duration

	format    AudioFormat
	frameSize int
	maxChunk  int

	stream *portaudio.Stream

	mu      sync.Mutex
	cond    *sync.Cond
	ring    []float32 // interleaved, channels * frames
	closed  bool
}

// NewPortaudioSink builds an unopened PortaudioSink from a sink Config.
// Recognised options: "device" (exact name match against available
// output devices, default output device if empty) and "latency_ms".
func NewPortaudioSink(cfg Config) (Sink, error) {
	latencyMS, err := IntOption(cfg.Options, "latency_ms", 20)
	if err != nil {
		return nil, err
	}
	return &PortaudioSink{
		deviceName: cfg.Options["device"],
		latency:    time.Duration(latencyMS) * time.Millisecond,
	}, nil
}

func (s *PortaudioSink) Open(format AudioFormat) (AudioFormat, error) {
	if err := paAcquire(); err != nil {
		return format, err
	}

	// Live playback through this binding only carries float32 samples;
	// S24/S32 decoder output is downgraded to S16 precision before
	// conversion, same spirit as AoOutputPlugin's 24-bit-unsupported
	// fallback to 16-bit.
	if format.Format == SampleFormatS24 || format.Format == SampleFormatS32 {
		format.Format = SampleFormatS16
	}

	s.format = format
	s.frameSize = format.FrameSize()
	s.cond = sync.NewCond(&s.mu)

	framesPerBuffer := int(float64(format.SampleRate) * s.latency.Seconds())
	dev, err := s.resolveDevice()
	if err != nil {
		paRelease()
		return format, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = format.Channels
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = framesPerBuffer

	stream, err := portaudio.OpenStream(params, s.callback)
	if err != nil {
		paRelease()
		return format, fmt.Errorf("%w: open stream: %v", ErrOpen, err)
	}
	if err := stream.Start(); err != nil {
		paRelease()
		return format, fmt.Errorf("%w: start stream: %v", ErrOpen, err)
	}
	s.stream = stream

	// The transfer granularity is a fixed 4096 bytes rounded down to a
	// whole frame; no write_size option is read from the sink Config.
	s.maxChunk = RoundDownToFrame(4096, s.frameSize)
	return format, nil
}

func (s *PortaudioSink) resolveDevice() (*portaudio.DeviceInfo, error) {
	if s.deviceName == "" {
		return portaudio.DefaultOutputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.MaxOutputChannels > 0 && d.Name == s.deviceName {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no output device named %q", s.deviceName)
}

// callback is invoked on portaudio's realtime thread; it must never
// block, so it takes the buffer lock only briefly and pads with
// silence on underrun rather than waiting for Play to catch up.
func (s *PortaudioSink) callback(out []float32) {
	s.mu.Lock()
	n := copy(out, s.ring)
	s.ring = s.ring[n:]
	s.cond.Broadcast()
	s.mu.Unlock()

	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

func (s *PortaudioSink) MaxChunk() int { return s.maxChunk }

// Play decodes the S16/S24 byte slice into float32 samples, appends
// them to the ring buffer, and blocks until the callback has drained
// enough of the backlog to accept them — giving Play the same
// backpressure character as a blocking device write.
func (s *PortaudioSink) Play(data []byte) (int, error) {
	if len(data)%s.frameSize != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a whole multiple of frame size %d", ErrWrite, len(data), s.frameSize)
	}
	samples := decodeSamplesF32(data, s.format.Format)

	const maxBacklog = 1 << 16 // samples
	s.mu.Lock()
	for len(s.ring) > maxBacklog && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		s.mu.Unlock()
		return 0, ErrWrite
	}
	s.ring = append(s.ring, samples...)
	s.mu.Unlock()
	return len(data), nil
}

func (s *PortaudioSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	var err error
	if s.stream != nil {
		err = s.stream.Close()
	}
	paRelease()
	return err
}

// decodeSamplesF32 converts interleaved little-endian PCM into float32
// samples in [-1, 1].
func decodeSamplesF32(data []byte, format SampleFormat) []float32 {
	width := format.Bytes()
	n := len(data) / width
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		off := i * width
		switch format {
		case SampleFormatS16:
			v := int16(uint16(data[off]) | uint16(data[off+1])<<8)
			out[i] = float32(v) / 32768.0
		case SampleFormatS24:
			v := int32(uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16)
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF
			}
			out[i] = float32(v) / 8388608.0
		case SampleFormatS32:
			v := int32(uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24)
			out[i] = float32(v) / 2147483648.0
		}
	}
	return out
}
