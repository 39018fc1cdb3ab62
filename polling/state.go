// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package polling tracks reader attachment and card presence over time.
//
// Connection state is an explicit tagged machine rather than nullable
// session fields: every state the integration layer can observe is a
// named constant, and only the transitions in the table are legal.
package polling

import "fmt"

// ConnState is the connection state of one reader/card pair.
type ConnState int

const (
	// Disconnected means no reader is attached.
	Disconnected ConnState = iota
	// ReaderConnected means a reader is attached with no card on it.
	ReaderConnected
	// CardPresent means a card is on the reader.
	CardPresent
	// Authenticated means the card has passed the mutual handshake in
	// the current session.
	Authenticated
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case ReaderConnected:
		return "reader-connected"
	case CardPresent:
		return "card-present"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}

// validTransitions is the transition table. Removing a card or unplugging
// the reader is always legal; skipping states (for example Disconnected
// straight to CardPresent) is not, because each hop corresponds to a
// distinct observable hardware event.
var validTransitions = map[ConnState][]ConnState{
	Disconnected:    {ReaderConnected},
	ReaderConnected: {Disconnected, CardPresent},
	CardPresent:     {Disconnected, ReaderConnected, Authenticated},
	Authenticated:   {Disconnected, ReaderConnected},
}

// TransitionError reports an attempt to move between states the table
// does not connect.
type TransitionError struct {
	From ConnState
	To   ConnState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// Machine is a connection state machine. The zero value starts
// Disconnected.
type Machine struct {
	state ConnState
}

// State returns the current state.
func (m *Machine) State() ConnState {
	return m.state
}

// Transition moves to the target state, or fails with a TransitionError
// if the table does not allow it. Transitioning to the current state is
// invalid; callers should not observe the same hardware event twice.
func (m *Machine) Transition(to ConnState) error {
	for _, allowed := range validTransitions[m.state] {
		if allowed == to {
			m.state = to
			return nil
		}
	}
	return &TransitionError{From: m.state, To: to}
}

// CanTransition reports whether the table allows moving to the target
// state.
func (m *Machine) CanTransition(to ConnState) bool {
	for _, allowed := range validTransitions[m.state] {
		if allowed == to {
			return true
		}
	}
	return false
}
