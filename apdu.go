// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

// The frame codec is a pure transformation layer: it builds the request
// frames exchanged with the reader and splits raw responses into body and
// status trailer. It holds no state and performs no I/O.

// Status byte signalling normal processing in SW1.
const swSuccess = 0x90

// LeNone marks a request without an expected-length byte. An expected
// length of zero is a valid hint and is distinct from no hint at all.
const LeNone = -1

// CommandHeader is the four leading bytes selecting a command.
type CommandHeader struct {
	Class       byte
	Instruction byte
	P1          byte
	P2          byte
}

// Request is a single command frame: a header, an optional payload and an
// optional expected response length.
type Request struct {
	Header CommandHeader
	Data   []byte
	// Le is the expected response length, or LeNone if the frame carries
	// no expected-length byte.
	Le int
}

// Serialize builds the wire form of the request:
// [class, instruction, p1, p2] ++ [len(data), data...] ++ [le].
// The payload and expected-length sections are emitted only when present.
func (r Request) Serialize() []byte {
	buf := make([]byte, 0, 4+1+len(r.Data)+1)
	buf = append(buf, r.Header.Class, r.Header.Instruction, r.Header.P1, r.Header.P2)
	if len(r.Data) > 0 {
		buf = append(buf, byte(len(r.Data)))
		buf = append(buf, r.Data...)
	}
	if r.Le != LeNone {
		buf = append(buf, byte(r.Le))
	}
	return buf
}

// Response is a decoded reply: everything before the final two bytes is the
// body, the final two bytes are the status trailer.
type Response struct {
	Data []byte
	SW1  byte
	SW2  byte
}

// ParseResponse splits a raw reply into body and status trailer.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) < 2 {
		return nil, ErrResponseTooShort
	}
	return &Response{
		Data: raw[:len(raw)-2],
		SW1:  raw[len(raw)-2],
		SW2:  raw[len(raw)-1],
	}, nil
}

// Success reports whether the status trailer signals normal processing.
func (r *Response) Success() bool {
	return r.SW1 == swSuccess
}

// Status returns nil on success, or a StatusError carrying both status
// bytes. The op string names the failing operation for diagnostics.
func (r *Response) Status(op string) error {
	if r.Success() {
		return nil
	}
	return &StatusError{Op: op, SW1: r.SW1, SW2: r.SW2}
}
