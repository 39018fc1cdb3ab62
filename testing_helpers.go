// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"encoding/hex"
)

// MockTransport is an in-memory Transport for tests. Responses can be
// keyed to exact request frames or queued in order; every transmitted
// frame is recorded for inspection.
//
// MockTransport is not safe for concurrent use, matching the single-owner
// contract of the real channel.
type MockTransport struct {
	responses map[string][]byte
	errors    map[string]error
	queue     [][]byte
	atr       []byte
	// Sent records every frame passed to Transmit, in order.
	Sent   [][]byte
	closed bool
}

// NewMockTransport creates an empty mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string][]byte),
		errors:    make(map[string]error),
	}
}

// SetResponse registers the raw response returned for an exact request
// frame.
func (m *MockTransport) SetResponse(request, response []byte) {
	m.responses[hex.EncodeToString(request)] = response
}

// SetError registers a transport error returned for an exact request
// frame.
func (m *MockTransport) SetError(request []byte, err error) {
	m.errors[hex.EncodeToString(request)] = err
}

// Queue appends responses returned in order for requests with no exact
// match.
func (m *MockTransport) Queue(responses ...[]byte) {
	m.queue = append(m.queue, responses...)
}

// SetATR sets the answer-to-reset returned by ATR. A nil ATR makes ATR
// report ErrNoCard.
func (m *MockTransport) SetATR(atr []byte) {
	m.atr = atr
}

// Transmit records the frame and returns the scripted response. Frames
// with no exact match consume the queue; with the queue empty, a bare
// success trailer is returned.
func (m *MockTransport) Transmit(frame []byte) ([]byte, error) {
	if m.closed {
		return nil, ErrTransportClosed
	}
	m.Sent = append(m.Sent, append([]byte(nil), frame...))

	key := hex.EncodeToString(frame)
	if err, ok := m.errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.responses[key]; ok {
		return append([]byte(nil), resp...), nil
	}
	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return append([]byte(nil), resp...), nil
	}
	return []byte{0x90, 0x00}, nil
}

// ATR returns the configured answer-to-reset.
func (m *MockTransport) ATR() ([]byte, error) {
	if m.closed {
		return nil, ErrTransportClosed
	}
	if m.atr == nil {
		return nil, ErrNoCard
	}
	return append([]byte(nil), m.atr...), nil
}

// Close marks the transport closed.
func (m *MockTransport) Close() error {
	m.closed = true
	return nil
}

// IsConnected reports whether Close has been called.
func (m *MockTransport) IsConnected() bool {
	return !m.closed
}

// Type returns TransportMock.
func (*MockTransport) Type() TransportType {
	return TransportMock
}
