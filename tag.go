// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"fmt"
	"io"
)

// Ultralight C memory layout. 48 blocks of 4 bytes each; the sub-ranges
// below are fixed by the card type and never resized.
const (
	// BlockSize is the tag's block size in bytes.
	BlockSize = 4
	// BlockCount is the number of blocks on the tag.
	BlockCount = 0x30

	blockSerialStart = 0x00
	blockSerialEnd   = 0x02
	// BlockOTP is the one-time-programmable block.
	BlockOTP = 0x03
	// BlockUserStart and BlockUserEnd bound the user data area.
	BlockUserStart = 0x04
	BlockUserEnd   = 0x27
	blockLockStart = 0x28 // lock bytes, unused by this API
	blockLockEnd   = 0x29
	blockAuthConfA = 0x2A // AUTH0: first protected block
	blockAuthConfB = 0x2B // AUTH1: protection mode
	blockKeyStart  = 0x2C
	blockKeyEnd    = 0x2F

	// maxReadLength is the largest read the reader serves in one command.
	maxReadLength = 16

	serialAreaLen = 9
)

// manufacturerNXP is the expected first serial byte; Ultralight C is an
// NXP part.
const manufacturerNXP = 0x04

// cascadeTag is folded into BCC0 per ISO 14443-3 anticollision.
const cascadeTag = 0x88

// AuthLock selects which operations are locked from the configured block
// onward once authentication protection is active.
type AuthLock byte

const (
	// AuthLockReadWrite locks both reads and writes behind
	// authentication.
	AuthLockReadWrite AuthLock = 0x00
	// AuthLockWrite locks only writes behind authentication.
	AuthLockWrite AuthLock = 0x01
)

// AuthConfig is the tag's authentication policy: protection applies from
// StartingBlock to the end of memory, in the mode Lock selects.
type AuthConfig struct {
	StartingBlock byte
	Lock          AuthLock
}

// UltralightC models the memory of a MIFARE Ultralight C tag reached
// through a Reader.
//
// UltralightC is not safe for concurrent use; see the package
// documentation.
type UltralightC struct {
	reader *Reader
	// rand supplies the handshake challenge; tests inject a fixed source.
	rand io.Reader
}

// NewUltralightC creates a tag model on the given reader.
func NewUltralightC(reader *Reader) *UltralightC {
	return &UltralightC{reader: reader}
}

// Reader returns the underlying reader.
func (t *UltralightC) Reader() *Reader {
	return t.reader
}

// validateRange checks that a read or write starting at block and covering
// length bytes stays inside [start, end]. It fails before any
// transmission.
func validateRange(op string, block byte, length, start, end int) error {
	if int(block) < start {
		return validationErrorf(op, "block %#04x below valid range start %#04x", block, start)
	}
	last := int(block) + (length+BlockSize-1)/BlockSize - 1
	if last > end {
		return validationErrorf(op, "range [%#04x, %#04x] exceeds valid range end %#04x", block, last, end)
	}
	return nil
}

// ReadData reads up to 16 bytes starting at the given block. The span may
// cover any readable block, including the serial, OTP and configuration
// areas.
func (t *UltralightC) ReadData(block byte, length int) ([]byte, error) {
	if length < 0 || length > maxReadLength {
		return nil, validationErrorf("ReadData", "length %d out of range [0, %d]", length, maxReadLength)
	}
	if err := validateRange("ReadData", block, length, 0, blockKeyEnd); err != nil {
		return nil, err
	}
	return t.reader.ReadBlock(block, byte(length))
}

// WriteData writes exactly one block into the user data area.
func (t *UltralightC) WriteData(block byte, data []byte) error {
	if len(data) != BlockSize {
		return validationErrorf("WriteData", "data must be %d bytes, got %d", BlockSize, len(data))
	}
	if err := validateRange("WriteData", block, len(data), BlockUserStart, BlockUserEnd); err != nil {
		return err
	}
	return t.reader.WriteBlock(block, data)
}

// ReadLongData reads an arbitrary span from the tag, splitting the request
// into reader-maximum-sized reads in ascending block order.
func (t *UltralightC) ReadLongData(block byte, length int) ([]byte, error) {
	if length < 0 {
		return nil, validationErrorf("ReadLongData", "negative length %d", length)
	}
	if err := validateRange("ReadLongData", block, length, 0, blockKeyEnd); err != nil {
		return nil, err
	}

	out := make([]byte, 0, length)
	for offset := 0; offset < length; offset += maxReadLength {
		chunk := min(maxReadLength, length-offset)
		data, err := t.reader.ReadBlock(block+byte(offset/BlockSize), byte(chunk))
		if err != nil {
			return nil, err
		}
		if len(data) < chunk {
			return nil, &ProtocolError{Op: "ReadLongData", Expected: chunk, Actual: len(data)}
		}
		out = append(out, data[:chunk]...)
	}
	return out, nil
}

// WriteLongData writes an arbitrary block-aligned span into the user data
// area, one block per round trip in ascending order.
//
// The medium offers no atomicity: a failure part-way leaves the blocks
// already written in place. The error reports the failing block.
func (t *UltralightC) WriteLongData(block byte, data []byte) error {
	if len(data)%BlockSize != 0 {
		return validationErrorf("WriteLongData", "data length %d is not a multiple of the block size", len(data))
	}
	if err := validateRange("WriteLongData", block, len(data), BlockUserStart, BlockUserEnd); err != nil {
		return err
	}

	for offset := 0; offset < len(data); offset += BlockSize {
		target := block + byte(offset/BlockSize)
		if err := t.reader.WriteBlock(target, data[offset:offset+BlockSize]); err != nil {
			return fmt.Errorf("write of %d blocks failed at block %#04x: %w",
				len(data)/BlockSize, target, err)
		}
	}
	return nil
}

// UID reads the serial area and assembles the tag's 7-byte UID.
//
// The serial area holds [uid0, uid1, uid2, BCC0, uid3, uid4, uid5, uid6,
// BCC1] with BCC0 = 0x88 ^ uid0 ^ uid1 ^ uid2 and
// BCC1 = uid3 ^ uid4 ^ uid5 ^ uid6. A wrong manufacturer byte or a wrong
// check character fails with a distinct error.
func (t *UltralightC) UID() ([]byte, error) {
	serial, err := t.ReadData(blockSerialStart, serialAreaLen)
	if err != nil {
		return nil, err
	}
	if len(serial) < serialAreaLen {
		return nil, &ProtocolError{Op: "UID", Expected: serialAreaLen, Actual: len(serial)}
	}

	if serial[0] != manufacturerNXP {
		return nil, &ManufacturerError{Expected: manufacturerNXP, Actual: serial[0]}
	}
	bcc0 := cascadeTag ^ serial[0] ^ serial[1] ^ serial[2]
	if serial[3] != bcc0 {
		return nil, &ChecksumError{Field: "BCC0", Expected: bcc0, Actual: serial[3]}
	}
	bcc1 := serial[4] ^ serial[5] ^ serial[6] ^ serial[7]
	if serial[8] != bcc1 {
		return nil, &ChecksumError{Field: "BCC1", Expected: bcc1, Actual: serial[8]}
	}

	uid := make([]byte, 0, 7)
	uid = append(uid, serial[0], serial[1], serial[2])
	uid = append(uid, serial[4:8]...)
	return uid, nil
}

// AuthConfig reads the tag's authentication policy from the two
// configuration blocks.
func (t *UltralightC) AuthConfig() (*AuthConfig, error) {
	data, err := t.ReadData(blockAuthConfA, 2*BlockSize)
	if err != nil {
		return nil, err
	}
	if len(data) < 2*BlockSize {
		return nil, &ProtocolError{Op: "AuthConfig", Expected: 2 * BlockSize, Actual: len(data)}
	}
	return &AuthConfig{
		StartingBlock: data[0],
		Lock:          AuthLock(data[BlockSize] & 0x01),
	}, nil
}

// SetAuthConfig writes the tag's authentication policy. Protection applies
// from startingBlock onward; startingBlock must lie between the OTP block
// and the last block.
func (t *UltralightC) SetAuthConfig(startingBlock byte, lock AuthLock) error {
	if startingBlock < BlockOTP || startingBlock > blockKeyEnd {
		return validationErrorf("SetAuthConfig", "starting block %#04x out of range [%#04x, %#04x]",
			startingBlock, byte(BlockOTP), byte(blockKeyEnd))
	}
	if lock != AuthLockWrite && lock != AuthLockReadWrite {
		return validationErrorf("SetAuthConfig", "invalid lock mode %#04x", byte(lock))
	}
	if err := t.reader.WriteBlock(blockAuthConfA, []byte{startingBlock, 0x00, 0x00, 0x00}); err != nil {
		return err
	}
	return t.reader.WriteBlock(blockAuthConfB, []byte{byte(lock), 0x00, 0x00, 0x00})
}

// ChangeAuthKey writes a new 16-byte 3DES authentication key into the
// tag's key storage area.
//
// The key is split into two 8-byte halves; each half is byte-reversed and
// written as two blocks. The ordering matches the tag's internal key
// layout and was established against real hardware; it is not derivable
// from the datasheet's key numbering.
func (t *UltralightC) ChangeAuthKey(key []byte) error {
	if len(key) != AuthKeySize {
		return validationErrorf("ChangeAuthKey", "key must be %d bytes, got %d", AuthKeySize, len(key))
	}

	reversed := make([]byte, AuthKeySize)
	for i := 0; i < 8; i++ {
		reversed[i] = key[7-i]
		reversed[8+i] = key[15-i]
	}
	defer zeroBytes(reversed)

	for i := 0; i < 4; i++ {
		block := byte(blockKeyStart + i)
		if err := t.reader.WriteBlock(block, reversed[i*BlockSize:(i+1)*BlockSize]); err != nil {
			return fmt.Errorf("key write failed at block %#04x: %w", block, err)
		}
	}
	return nil
}

// Authenticate runs the 3DES mutual-authentication handshake with the
// given 16-byte key. On success the tag grants access to protected
// memory for the rest of the card session.
func (t *UltralightC) Authenticate(key []byte) error {
	return authenticate(t.reader, key, t.rand)
}
