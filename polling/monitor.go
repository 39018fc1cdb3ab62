// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package polling

import (
	"context"
	"sync"
	"time"
)

// EventKind selects which connection events a subscription receives.
type EventKind int

const (
	// EventReaderConnected fires when a reader is attached.
	EventReaderConnected EventKind = iota
	// EventReaderDisconnected fires when the reader goes away.
	EventReaderDisconnected
	// EventCardInserted fires when a card lands on the reader.
	EventCardInserted
	// EventCardRemoved fires when the card leaves the reader.
	EventCardRemoved
)

// Event is one observed connection change.
type Event struct {
	Kind   EventKind
	Reader string
	State  ConnState
}

// Handler receives events for one subscription. Handlers run on the
// monitor's polling goroutine and must not block.
type Handler func(Event)

// Token identifies a subscription. Unsubscribing by token avoids the
// brittleness of removing callbacks by reference equality.
type Token uint64

// StatusSource reports reader attachment and card presence. The PC/SC
// implementation lives in transport/pcsc; tests supply fakes.
type StatusSource interface {
	Readers() ([]string, error)
	CardPresent(reader string) (bool, error)
}

type subscription struct {
	kind    EventKind
	handler Handler
}

// Monitor polls a StatusSource and delivers connection events to
// subscribers while driving the connection state machine.
type Monitor struct {
	source   StatusSource
	interval time.Duration

	mu        sync.Mutex
	machine   Machine
	reader    string
	subs      map[Token]subscription
	nextToken Token
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithInterval sets the polling interval (default 250 ms).
func WithInterval(interval time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.interval = interval
	}
}

// NewMonitor creates a monitor over the given source.
func NewMonitor(source StatusSource, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		source:   source,
		interval: 250 * time.Millisecond,
		subs:     make(map[Token]subscription),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers a handler for one event kind and returns its token.
func (m *Monitor) Subscribe(kind EventKind, handler Handler) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextToken++
	token := m.nextToken
	m.subs[token] = subscription{kind: kind, handler: handler}
	return token
}

// Unsubscribe removes a subscription. It reports whether the token was
// registered.
func (m *Monitor) Unsubscribe(token Token) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[token]
	delete(m.subs, token)
	return ok
}

// State returns the current connection state.
func (m *Monitor) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.State()
}

// Reader returns the name of the tracked reader, if any.
func (m *Monitor) Reader() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader
}

// MarkAuthenticated records a successful handshake for the current card
// session. It fails with a TransitionError unless a card is present.
func (m *Monitor) MarkAuthenticated() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.Transition(Authenticated)
}

// Run polls until the context is cancelled. Each poll observes the
// source, applies at most the transitions the hardware change implies,
// and dispatches events to subscribers.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Poll()
		}
	}
}

// Poll performs one observation cycle. Exposed so callers and tests can
// drive the monitor without the timer.
func (m *Monitor) Poll() {
	readers, err := m.source.Readers()
	if err != nil || len(readers) == 0 {
		m.observeDisconnected()
		return
	}

	m.mu.Lock()
	if m.machine.State() == Disconnected {
		m.reader = readers[0]
		m.transitionLocked(ReaderConnected, EventReaderConnected)
	}
	reader := m.reader
	m.mu.Unlock()

	present, err := m.source.CardPresent(reader)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch state := m.machine.State(); {
	case present && state == ReaderConnected:
		m.transitionLocked(CardPresent, EventCardInserted)
	case !present && (state == CardPresent || state == Authenticated):
		m.transitionLocked(ReaderConnected, EventCardRemoved)
	}
}

func (m *Monitor) observeDisconnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.machine.State()
	if state == Disconnected {
		return
	}
	if state == CardPresent || state == Authenticated {
		m.transitionLocked(ReaderConnected, EventCardRemoved)
	}
	m.transitionLocked(Disconnected, EventReaderDisconnected)
	m.reader = ""
}

// transitionLocked applies a transition and dispatches the matching
// event. Callers hold m.mu; handlers are invoked without the lock so
// they may call back into the monitor.
func (m *Monitor) transitionLocked(to ConnState, kind EventKind) {
	if err := m.machine.Transition(to); err != nil {
		return
	}
	event := Event{Kind: kind, Reader: m.reader, State: m.machine.State()}
	var handlers []Handler
	for _, sub := range m.subs {
		if sub.kind == kind {
			handlers = append(handlers, sub.handler)
		}
	}
	m.mu.Unlock()
	for _, h := range handlers {
		h(event)
	}
	m.mu.Lock()
}
