package protocol

import (
	"errors"
	"fmt"
)

// Sentinel protocol errors. Transport, JSON and HTTP failures surface as
// wrapped causes from the operation that hit them; the conditions below are
// protocol-level.
var (
	// ErrPipeClosed means the peer sent a CLOSE frame or an opcode
	// outside the known set; the session is finished.
	ErrPipeClosed = errors.New("rpc pipe closed")

	// ErrUnexpectedResponse means a command response arrived where an
	// event was expected.
	ErrUnexpectedResponse = errors.New("unexpected command response")

	// ErrUnexpectedEvent means an event arrived where it cannot be
	// handled, e.g. anything but READY during connection setup.
	ErrUnexpectedEvent = errors.New("unexpected event")
)

// InvalidEventError reports an event discriminant outside the known table.
// The stream can no longer be trusted to be in sync.
type InvalidEventError struct {
	Name string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event %q", e.Name)
}

// UnsupportedOpcodeError reports a recognized control frame this client does
// not implement (PING/PONG). It is returned instead of silently consuming
// the frame so callers notice immediately rather than hang.
type UnsupportedOpcodeError struct {
	Op Opcode
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("opcode %s not supported", e.Op)
}
