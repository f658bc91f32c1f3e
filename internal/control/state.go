package control

import (
	"sync"
	"time"

	"github.com/mx-silva/phonond/internal/stream"
)

// ControlState is the shared record spec.md §3 describes: a single
// instance per decoder worker, written by two parties under different
// rules.
//
// Field ownership (who may write):
//
//	command      - controller (worker only ever clears it to None)
//	nextSong     - controller
//	seekWhere    - controller
//	state        - worker only
//	currentSong  - worker only (latched from nextSong at decode start)
//	errKind      - worker only
//	seekable     - worker only
//	seekError    - worker only
//
// One mutex guards all fields; spec.md §5 permits either atomics or "a
// small mutex" and the teacher's style favors a single lock-guarded
// struct (internal/audio/player.go's Player uses an RWMutex), so this
// follows suit with a plain sync.Mutex.
type ControlState struct {
	mu sync.Mutex

	command Command
	state   State
	errKind ErrorKind

	currentSong stream.Song
	nextSong    stream.Song

	seekable  bool
	seekWhere time.Duration
	seekError error

	NotifyWorker     *Notify
	NotifyController *Notify
}

// NewControlState returns a ControlState in the idle (STOP) state.
func NewControlState() *ControlState {
	return &ControlState{
		NotifyWorker:     NewNotify(),
		NotifyController: NewNotify(),
	}
}

func (s *ControlState) Command() Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.command
}

// SetCommand is the controller's primary way of talking to the worker.
// The worker only ever writes CommandNone back (acknowledgement).
func (s *ControlState) SetCommand(c Command) {
	s.mu.Lock()
	s.command = c
	s.mu.Unlock()
}

func (s *ControlState) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ControlState) SetState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *ControlState) Error() ErrorKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errKind
}

func (s *ControlState) SetError(e ErrorKind) {
	s.mu.Lock()
	s.errKind = e
	s.mu.Unlock()
}

func (s *ControlState) NextSong() stream.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSong
}

// SetNextSong is how the controller requests a song; it takes effect
// once the worker latches it via LatchSong at the start of a decode.
func (s *ControlState) SetNextSong(song stream.Song) {
	s.mu.Lock()
	s.nextSong = song
	s.mu.Unlock()
}

func (s *ControlState) CurrentSong() stream.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSong
}

// LatchSong copies NextSong into CurrentSong and returns it, per spec.md
// §4.4 step 1. Only the worker calls this.
func (s *ControlState) LatchSong() stream.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSong = s.nextSong
	return s.currentSong
}

func (s *ControlState) Seekable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekable
}

func (s *ControlState) SetSeekable(v bool) {
	s.mu.Lock()
	s.seekable = v
	s.mu.Unlock()
}

func (s *ControlState) SeekWhere() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekWhere
}

func (s *ControlState) SetSeekWhere(d time.Duration) {
	s.mu.Lock()
	s.seekWhere = d
	s.mu.Unlock()
}

func (s *ControlState) SeekError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekError
}

func (s *ControlState) SetSeekError(err error) {
	s.mu.Lock()
	s.seekError = err
	s.mu.Unlock()
}
