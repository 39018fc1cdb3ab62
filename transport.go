// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

// Transport defines the interface for communication with a smart-card
// reader. The PC/SC backend lives in transport/pcsc; MockTransport
// implements it for tests.
//
// A Transport is half-duplex and single-owner: Transmit performs exactly
// one request/response exchange and never partially delivers a frame.
type Transport interface {
	// Transmit sends a raw command frame and returns the raw response.
	Transmit(frame []byte) ([]byte, error)

	// ATR returns the card's answer-to-reset, or ErrNoCard if no card
	// session is active.
	ATR() ([]byte, error)

	// Close closes the transport connection.
	Close() error

	// IsConnected returns true if the transport is connected.
	IsConnected() bool

	// Type returns the transport type.
	Type() TransportType
}

// TransportType represents the type of transport.
type TransportType string

const (
	// TransportPCSC represents a PC/SC smart-card transport.
	TransportPCSC TransportType = "pcsc"
	// TransportMock represents a mock transport for testing.
	TransportMock TransportType = "mock"
)
