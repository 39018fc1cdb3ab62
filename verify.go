// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"bytes"
	"fmt"
)

// VerifiedTag wraps an UltralightC and reads every write back to confirm
// it landed. Verification is a single read-back per write; the core never
// retries, so a mismatch is surfaced as an error and the caller decides
// what to do with the mixed on-tag state.
type VerifiedTag struct {
	*UltralightC
}

// NewVerifiedTag creates a verifying wrapper around a tag.
func NewVerifiedTag(tag *UltralightC) *VerifiedTag {
	return &VerifiedTag{UltralightC: tag}
}

// verificationError reports a read-back that did not match what was
// written.
type verificationError struct {
	Block byte
}

func (e *verificationError) Error() string {
	return fmt.Sprintf("write verification failed: block %#04x read back with different contents", e.Block)
}

// WriteData writes one block and reads it back.
func (t *VerifiedTag) WriteData(block byte, data []byte) error {
	if err := t.UltralightC.WriteData(block, data); err != nil {
		return err
	}
	return t.verify(block, data)
}

// WriteLongData writes a span and reads the whole span back.
func (t *VerifiedTag) WriteLongData(block byte, data []byte) error {
	if err := t.UltralightC.WriteLongData(block, data); err != nil {
		return err
	}
	readBack, err := t.ReadLongData(block, len(data))
	if err != nil {
		return fmt.Errorf("write verification read failed: %w", err)
	}
	for offset := 0; offset < len(data); offset += BlockSize {
		if !bytes.Equal(data[offset:offset+BlockSize], readBack[offset:offset+BlockSize]) {
			return &verificationError{Block: block + byte(offset/BlockSize)}
		}
	}
	return nil
}

func (t *VerifiedTag) verify(block byte, expected []byte) error {
	readBack, err := t.ReadData(block, len(expected))
	if err != nil {
		return fmt.Errorf("write verification read failed: %w", err)
	}
	if !bytes.Equal(expected, readBack[:len(expected)]) {
		return &verificationError{Block: block}
	}
	return nil
}
