// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"errors"
	"fmt"

	"github.com/hsanjuan/go-ndef"
)

// NDEF TLV framing inside the user data area.
const (
	tlvNDEFMessage = 0x03
	tlvTerminator  = 0xFE

	userAreaSize = (BlockUserEnd - BlockUserStart + 1) * BlockSize
)

// ErrNoNDEFMessage indicates the user area holds no NDEF message TLV.
var ErrNoNDEFMessage = errors.New("no NDEF message found")

// ReadNDEF reads the user data area and decodes the first NDEF message
// TLV.
func (t *UltralightC) ReadNDEF() (*ndef.Message, error) {
	raw, err := t.ReadLongData(BlockUserStart, userAreaSize)
	if err != nil {
		return nil, err
	}

	payload, err := extractNDEFTLV(raw)
	if err != nil {
		return nil, err
	}

	msg := &ndef.Message{}
	if _, err := msg.Unmarshal(payload); err != nil {
		return nil, fmt.Errorf("parse NDEF message: %w", err)
	}
	return msg, nil
}

// WriteNDEF encodes the message as an NDEF TLV and writes it at the start
// of the user data area, padded to a whole number of blocks.
func (t *UltralightC) WriteNDEF(msg *ndef.Message) error {
	if msg == nil {
		return validationErrorf("WriteNDEF", "nil message")
	}
	payload, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("encode NDEF message: %w", err)
	}
	if len(payload) > 0xFE {
		return validationErrorf("WriteNDEF", "message of %d bytes needs long TLV form, exceeding tag capacity", len(payload))
	}

	tlv := make([]byte, 0, len(payload)+3)
	tlv = append(tlv, tlvNDEFMessage, byte(len(payload)))
	tlv = append(tlv, payload...)
	tlv = append(tlv, tlvTerminator)
	if len(tlv) > userAreaSize {
		return validationErrorf("WriteNDEF", "message of %d bytes exceeds user area of %d bytes", len(tlv), userAreaSize)
	}
	for len(tlv)%BlockSize != 0 {
		tlv = append(tlv, 0x00)
	}

	return t.WriteLongData(BlockUserStart, tlv)
}

// ReadText returns the text content of the tag's NDEF message.
func (t *UltralightC) ReadText() (string, error) {
	msg, err := t.ReadNDEF()
	if err != nil {
		return "", err
	}
	return msg.String(), nil
}

// WriteText writes a single NDEF text record.
func (t *UltralightC) WriteText(text string) error {
	return t.WriteNDEF(ndef.NewTextMessage(text, "en"))
}

// WriteURI writes a single NDEF URI record.
func (t *UltralightC) WriteURI(uri string) error {
	return t.WriteNDEF(ndef.NewURIMessage(uri))
}

// extractNDEFTLV scans the user area for the NDEF message TLV and returns
// its payload.
func extractNDEFTLV(raw []byte) ([]byte, error) {
	for i := 0; i < len(raw); {
		switch raw[i] {
		case 0x00: // null TLV, single byte
			i++
		case tlvTerminator:
			return nil, ErrNoNDEFMessage
		case tlvNDEFMessage:
			if i+1 >= len(raw) {
				return nil, ErrNoNDEFMessage
			}
			length := int(raw[i+1])
			start := i + 2
			if length == 0xFF {
				// Long form: two-byte length.
				if i+3 >= len(raw) {
					return nil, ErrNoNDEFMessage
				}
				length = int(raw[i+2])<<8 | int(raw[i+3])
				start = i + 4
			}
			if start+length > len(raw) {
				return nil, fmt.Errorf("NDEF TLV length %d exceeds user area", length)
			}
			return raw[start : start+length], nil
		default:
			// Unknown TLV: skip over its value.
			if i+1 >= len(raw) {
				return nil, ErrNoNDEFMessage
			}
			i += 2 + int(raw[i+1])
		}
	}
	return nil, ErrNoNDEFMessage
}
