// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"fmt"
)

// Reader instruction codes. The class byte 0xFF marks a pseudo-APDU
// handled by the reader itself rather than forwarded to the card.
const (
	classReader = 0xFF

	insLoadKey      = 0x82
	insAuthenticate = 0x86
	insReadBinary   = 0xB0
	insUpdateBinary = 0xD6
	insEscape       = 0x00

	// P1 values selecting the escape function.
	escFirmwareVersion = 0x48
	escPICCParameter   = 0x50
	escSetPICCParam    = 0x51
	escBuzzerSetting   = 0x52
	escLEDBuzzer       = 0x40
	escDirectTransmit  = 0x00
)

// Direct-transmit opcodes relayed to the tag. 0xD4 0x42 is the reader
// chipset's pass-through command; the tag sees only the bytes after it.
const (
	dtHost             = 0xD4
	dtCommunicateThru  = 0x42
	tagCmdAuthenticate = 0x1A
	tagCmdAuthStep2    = 0xAF
)

// KeyType selects which authentication key slot semantics apply when
// authenticating through the reader's key store.
type KeyType byte

const (
	// KeyTypeA selects key A semantics.
	KeyTypeA KeyType = 0x60
	// KeyTypeB selects key B semantics.
	KeyTypeB KeyType = 0x61
)

// Reader wraps a transport with the reader-specific command set.
//
// Reader is not safe for concurrent use: the physical channel accepts one
// request at a time, and multi-step operations chain the output of one
// round trip into the next.
type Reader struct {
	transport Transport
}

// New creates a Reader on the given transport.
func New(transport Transport, opts ...Option) (*Reader, error) {
	if transport == nil {
		return nil, validationErrorf("New", "nil transport")
	}
	r := &Reader{transport: transport}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Transport returns the underlying transport.
func (r *Reader) Transport() Transport {
	return r.transport
}

// transceive performs one round trip: serialize, transmit, parse, and
// check the status trailer. Transport failures are wrapped with the
// operation name; status failures become StatusError.
func (r *Reader) transceive(op string, req Request) (*Response, error) {
	raw, err := r.transport.Transmit(req.Serialize())
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	resp, err := ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	debugf("%s: sw=%02X%02X body=% X", op, resp.SW1, resp.SW2, resp.Data)
	if err := resp.Status(op); err != nil {
		return nil, err
	}
	return resp, nil
}

// LoadKey stores an authentication key in the reader's volatile key store
// at the given slot.
func (r *Reader) LoadKey(slot byte, key []byte) error {
	if len(key) == 0 {
		return validationErrorf("LoadKey", "empty key")
	}
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insLoadKey, P1: 0x00, P2: slot},
		Data:   key,
		Le:     LeNone,
	}
	_, err := r.transceive("LoadKey", req)
	return err
}

// Authenticate authenticates a block against a previously loaded key slot
// using the reader's own authentication engine.
func (r *Reader) Authenticate(block byte, keyType KeyType, slot byte) error {
	if keyType != KeyTypeA && keyType != KeyTypeB {
		return validationErrorf("Authenticate", "invalid key type %02X", byte(keyType))
	}
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insAuthenticate, P1: 0x00, P2: 0x00},
		// Version 1 authentication data block.
		Data: []byte{0x01, 0x00, block, byte(keyType), slot},
		Le:   LeNone,
	}
	_, err := r.transceive("Authenticate", req)
	return err
}

// ReadBlock reads length bytes starting at the given block.
func (r *Reader) ReadBlock(block byte, length byte) ([]byte, error) {
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insReadBinary, P1: 0x00, P2: block},
		Le:     int(length),
	}
	resp, err := r.transceive("ReadBlock", req)
	if err != nil {
		return nil, fmt.Errorf("read block %#04x: %w", block, err)
	}
	return resp.Data, nil
}

// WriteBlock writes exactly one block of data at the given block address.
func (r *Reader) WriteBlock(block byte, data []byte) error {
	if len(data) != BlockSize {
		return validationErrorf("WriteBlock", "data must be %d bytes, got %d", BlockSize, len(data))
	}
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insUpdateBinary, P1: 0x00, P2: block},
		Data:   data,
		Le:     LeNone,
	}
	if _, err := r.transceive("WriteBlock", req); err != nil {
		return fmt.Errorf("write block %#04x: %w", block, err)
	}
	return nil
}

// FirmwareVersion queries the reader firmware identification string.
//
// The firmware reply carries no status trailer; the whole raw response is
// the ASCII version string.
func (r *Reader) FirmwareVersion() (string, error) {
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insEscape, P1: escFirmwareVersion, P2: 0x00},
		Le:     0x00,
	}
	raw, err := r.transport.Transmit(req.Serialize())
	if err != nil {
		return "", &TransportError{Op: "FirmwareVersion", Err: err}
	}
	return string(raw), nil
}

// SetBuzzerOnDetection enables or disables the buzzer beep on card
// detection.
func (r *Reader) SetBuzzerOnDetection(enabled bool) error {
	p2 := byte(0x00)
	if enabled {
		p2 = 0xFF
	}
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insEscape, P1: escBuzzerSetting, P2: p2},
		Le:     0x00,
	}
	_, err := r.transceive("SetBuzzerOnDetection", req)
	return err
}

// TransmitDirect relays raw bytes to the tag through the reader's
// pass-through channel and returns the response body. The reader forwards
// the bytes transparently; this is the channel the 3DES handshake runs on.
func (r *Reader) TransmitDirect(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, validationErrorf("TransmitDirect", "empty frame")
	}
	req := Request{
		Header: CommandHeader{Class: classReader, Instruction: insEscape, P1: escDirectTransmit, P2: 0x00},
		Data:   data,
		Le:     LeNone,
	}
	resp, err := r.transceive("TransmitDirect", req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
