package decoder

import "errors"

// errUnknownType is returned by dispatch when no registered plugin
// claims a stream. It is unexported: callers observe it only through
// the ErrorKind the worker sets on the shared ControlState
// (control.ErrorUnknownType), matching spec.md's convention that
// UNKNOWN_TYPE is a control-plane signal, not an API-visible error.
var errUnknownType = errors.New("decoder: no plugin claims this stream")

// ErrCancelled is returned by a plugin's decode loop when it observes a
// pending STOP or SEEK command mid-frame and unwinds early rather than
// running to EOF.
var ErrCancelled = errors.New("decoder: decode cancelled by command")
