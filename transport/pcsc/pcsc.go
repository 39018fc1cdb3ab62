// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package pcsc implements the rfid.Transport interface over PC/SC using
// the system smart-card service. This is the production transport for
// USB and Bluetooth readers of the ACR122U family.
package pcsc

import (
	"errors"
	"fmt"
	"time"

	"github.com/ebfe/scard"

	rfid "github.com/ahfs-hamburg/go-rfid"
)

// Transport is a PC/SC card connection.
type Transport struct {
	ctx    *scard.Context
	card   *scard.Card
	reader string
}

// ListReaders returns the names of all attached PC/SC readers.
func ListReaders() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establish PC/SC context: %w", err)
	}
	defer func() { _ = ctx.Release() }()

	readers, err := ctx.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}
	return readers, nil
}

// Connect opens the reader at the given index (0-based) and connects to
// the card in it.
func Connect(readerIndex int) (*Transport, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establish PC/SC context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		_ = ctx.Release()
		return nil, fmt.Errorf("no readers found: %w", err)
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		_ = ctx.Release()
		return nil, fmt.Errorf("reader index %d out of range (0..%d)", readerIndex, len(readers)-1)
	}

	return connect(ctx, readers[readerIndex])
}

// ConnectReader opens a reader by name and connects to the card in it.
func ConnectReader(name string) (*Transport, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establish PC/SC context: %w", err)
	}
	return connect(ctx, name)
}

func connect(ctx *scard.Context, reader string) (*Transport, error) {
	card, err := ctx.Connect(reader, scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		_ = ctx.Release()
		return nil, fmt.Errorf("connect to %q: %w", reader, err)
	}
	return &Transport{ctx: ctx, card: card, reader: reader}, nil
}

// Reader returns the PC/SC name of the connected reader.
func (t *Transport) Reader() string {
	return t.reader
}

// Transmit sends one frame to the reader and returns the raw response.
func (t *Transport) Transmit(frame []byte) ([]byte, error) {
	if t.card == nil {
		return nil, rfid.ErrTransportClosed
	}
	resp, err := t.card.Transmit(frame)
	if err != nil {
		return nil, fmt.Errorf("transmit: %w", err)
	}
	return resp, nil
}

// ATR returns the card's answer-to-reset, or rfid.ErrNoCard when no card
// session is active.
func (t *Transport) ATR() ([]byte, error) {
	if t.card == nil {
		return nil, rfid.ErrTransportClosed
	}
	status, err := t.card.Status()
	if err != nil {
		if errors.Is(err, scard.ErrNoSmartcard) || errors.Is(err, scard.ErrRemovedCard) {
			return nil, rfid.ErrNoCard
		}
		return nil, fmt.Errorf("card status: %w", err)
	}
	if len(status.Atr) == 0 {
		return nil, rfid.ErrNoCard
	}
	return status.Atr, nil
}

// Close disconnects the card and releases the PC/SC context.
func (t *Transport) Close() error {
	var firstErr error
	if t.card != nil {
		if err := t.card.Disconnect(scard.LeaveCard); err != nil {
			firstErr = fmt.Errorf("disconnect: %w", err)
		}
		t.card = nil
	}
	if t.ctx != nil {
		if err := t.ctx.Release(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release context: %w", err)
		}
		t.ctx = nil
	}
	return firstErr
}

// IsConnected reports whether the card connection is open.
func (t *Transport) IsConnected() bool {
	return t.card != nil
}

// Type returns rfid.TransportPCSC.
func (*Transport) Type() rfid.TransportType {
	return rfid.TransportPCSC
}

// Source reports reader attachment and card presence through the PC/SC
// status-change interface. It implements polling.StatusSource.
type Source struct {
	ctx *scard.Context
}

// NewSource creates a status source with its own PC/SC context.
func NewSource() (*Source, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establish PC/SC context: %w", err)
	}
	return &Source{ctx: ctx}, nil
}

// Readers returns the names of attached readers. An empty list is not an
// error; some platforms report it as one.
func (s *Source) Readers() ([]string, error) {
	readers, err := s.ctx.ListReaders()
	if err != nil {
		if errors.Is(err, scard.ErrNoReadersAvailable) {
			return nil, nil
		}
		return nil, fmt.Errorf("list readers: %w", err)
	}
	return readers, nil
}

// CardPresent reports whether a card is in the named reader.
func (s *Source) CardPresent(reader string) (bool, error) {
	states := []scard.ReaderState{{
		Reader:       reader,
		CurrentState: scard.StateUnaware,
	}}
	if err := s.ctx.GetStatusChange(states, 100*time.Millisecond); err != nil {
		return false, fmt.Errorf("status change: %w", err)
	}
	return states[0].EventState&scard.StatePresent != 0, nil
}

// Close releases the PC/SC context.
func (s *Source) Close() error {
	if s.ctx == nil {
		return nil
	}
	err := s.ctx.Release()
	s.ctx = nil
	if err != nil {
		return fmt.Errorf("release context: %w", err)
	}
	return nil
}
