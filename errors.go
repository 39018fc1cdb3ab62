// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the package.
var (
	// ErrNoCard indicates no card session is active on the reader.
	ErrNoCard = errors.New("no card present")
	// ErrTransportClosed indicates the transport has been closed.
	ErrTransportClosed = errors.New("transport closed")
	// ErrResponseTooShort indicates a raw response shorter than the
	// two-byte status trailer.
	ErrResponseTooShort = errors.New("response shorter than status trailer")
)

// ValidationError reports a precondition violated before any transmission.
// Operations that return a ValidationError have performed no I/O and have
// no side effects.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func validationErrorf(op, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps a channel failure, surfaced unchanged from the
// underlying transport with the failing operation attached.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports an unexpected response shape, such as a handshake
// reply whose length differs from the protocol's fixed frame size.
type ProtocolError struct {
	Op       string
	Expected int
	Actual   int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: expected %d response bytes, got %d", e.Op, e.Expected, e.Actual)
}

// StatusError reports a command-level failure signalled by the reader's
// status trailer (SW1 != 0x90). It carries both status bytes.
type StatusError struct {
	Op  string
	SW1 byte
	SW2 byte
}

func (e *StatusError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: command failed with status %02X %02X", e.Op, e.SW1, e.SW2)
	}
	return fmt.Sprintf("command failed with status %02X %02X", e.SW1, e.SW2)
}

// ChecksumError reports a UID block check character mismatch.
type ChecksumError struct {
	Field    string // "BCC0" or "BCC1"
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("UID checksum %s mismatch: expected %02X, got %02X", e.Field, e.Expected, e.Actual)
}

// ManufacturerError reports a serial area whose manufacturer byte does not
// match the expected chip manufacturer.
type ManufacturerError struct {
	Expected byte
	Actual   byte
}

func (e *ManufacturerError) Error() string {
	return fmt.Sprintf("unexpected manufacturer code %02X (%s), expected %02X (%s)",
		e.Actual, ManufacturerName(e.Actual), e.Expected, ManufacturerName(e.Expected))
}

// AuthenticationError reports a failed mutual-authentication handshake:
// the tag's final challenge transform did not verify against the shared key.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// IsValidationError reports whether err is a precondition failure that
// occurred before any transmission.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStatusError reports whether err carries a reader status trailer, and
// returns the status bytes if so.
func IsStatusError(err error) (sw1, sw2 byte, ok bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.SW1, se.SW2, true
	}
	return 0, 0, false
}

// IsAuthenticationError reports whether err is a handshake verification
// failure.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
