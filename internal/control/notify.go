package control

import "context"

// Notify is a one-shot, collapsing rendezvous signal: Signal makes the
// next Wait return immediately; repeated signals before a Wait collapse
// into one (there is no counter, and no queue). Used in pairs: the
// worker waits on its own Notify and signals the controller's, and vice
// versa.
type Notify struct {
	ch chan struct{}
}

// NewNotify returns a Notify ready for use.
func NewNotify() *Notify {
	return &Notify{ch: make(chan struct{}, 1)}
}

// Signal arms the latch. A Signal with no corresponding Wait pending is
// not lost, but a second Signal before any Wait is a no-op: the channel
// only ever holds one token.
func (n *Notify) Signal() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the latch is signalled.
func (n *Notify) Wait() {
	<-n.ch
}

// WaitContext blocks until the latch is signalled or ctx is done,
// whichever comes first.
func (n *Notify) WaitContext(ctx context.Context) error {
	select {
	case <-n.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
