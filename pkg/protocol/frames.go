// Package protocol implements the wire format of Discord's local RPC
// transport: opcode-tagged, length-prefixed JSON frames carried over a unix
// domain socket or named pipe. It also classifies inbound payloads into push
// events versus command responses; see Classify.
package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Opcode tags a frame on the wire.
type Opcode uint32

const (
	OpHandshake Opcode = iota
	OpFrame
	OpClose
	OpPing
	OpPong
)

func (o Opcode) String() string {
	switch o {
	case OpHandshake:
		return "HANDSHAKE"
	case OpFrame:
		return "FRAME"
	case OpClose:
		return "CLOSE"
	case OpPing:
		return "PING"
	case OpPong:
		return "PONG"
	default:
		return fmt.Sprintf("Opcode(%d)", uint32(o))
	}
}

// headerSize is the fixed frame header: u32 opcode + u32 payload length,
// both little-endian.
const headerSize = 8

// Frame is one decoded unit from the wire.
type Frame struct {
	Op      Opcode
	Payload []byte
}

// AppendFrame JSON-encodes v and appends a complete frame to buf, returning
// the extended slice. Callers reuse the same scratch buffer across sends;
// the length field is computed after encoding and written over the
// placeholder, never assumed zero.
func AppendFrame(buf []byte, op Opcode, v any) ([]byte, error) {
	start := len(buf)
	var header [headerSize]byte
	binary.LittleEndian.PutUint32(header[:4], uint32(op))
	buf = append(buf, header[:]...)

	payload, err := json.Marshal(v)
	if err != nil {
		return buf[:start], fmt.Errorf("encode frame payload: %w", err)
	}
	buf = append(buf, payload...)
	binary.LittleEndian.PutUint32(buf[start+4:start+headerSize], uint32(len(payload)))
	return buf, nil
}

// ReadFrame reads exactly one frame from r. Each section (opcode, length,
// payload) must arrive in full; a short read is an I/O error, not a retry
// condition. An opcode outside the known set means the peer is speaking a
// different protocol, which is reported as ErrPipeClosed.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, fmt.Errorf("read frame header: %w", err)
	}
	op := Opcode(binary.LittleEndian.Uint32(header[:4]))
	length := binary.LittleEndian.Uint32(header[4:])
	if op > OpPong {
		return Frame{}, ErrPipeClosed
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, fmt.Errorf("read frame payload: %w", err)
	}
	return Frame{Op: op, Payload: payload}, nil
}
