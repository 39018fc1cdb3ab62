// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNDEFTLV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      []byte
		expected []byte
		err      error
	}{
		{
			name:     "Message_At_Start",
			raw:      []byte{0x03, 0x02, 0xAA, 0xBB, 0xFE},
			expected: []byte{0xAA, 0xBB},
		},
		{
			name:     "Skips_Null_TLVs",
			raw:      []byte{0x00, 0x00, 0x03, 0x01, 0xCC, 0xFE},
			expected: []byte{0xCC},
		},
		{
			name:     "Skips_Unknown_TLV",
			raw:      []byte{0x01, 0x03, 0x11, 0x22, 0x33, 0x03, 0x01, 0xDD, 0xFE},
			expected: []byte{0xDD},
		},
		{
			name:     "Long_Form_Length",
			raw:      append([]byte{0x03, 0xFF, 0x01, 0x00}, make([]byte, 256)...),
			expected: make([]byte, 256),
		},
		{
			name: "Terminator_First",
			raw:  []byte{0xFE, 0x03, 0x01, 0xAA},
			err:  ErrNoNDEFMessage,
		},
		{
			name: "All_Zeros",
			raw:  make([]byte, userAreaSize),
			err:  ErrNoNDEFMessage,
		},
		{
			name: "Truncated_Header",
			raw:  []byte{0x03},
			err:  ErrNoNDEFMessage,
		},
		{
			name:     "Zero_Length_Message",
			raw:      []byte{0x03, 0x00, 0xFE},
			expected: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			payload, err := extractNDEFTLV(tt.raw)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, payload)
		})
	}
}

func TestExtractNDEFTLVOverlongLength(t *testing.T) {
	t.Parallel()

	_, err := extractNDEFTLV([]byte{0x03, 0x10, 0xAA})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds user area")
}

func TestWriteNDEFValidation(t *testing.T) {
	t.Parallel()

	t.Run("Nil_Message", func(t *testing.T) {
		t.Parallel()
		tag, mt := newTestTag(t)
		err := tag.WriteNDEF(nil)
		assert.True(t, IsValidationError(err))
		assert.Empty(t, mt.Sent)
	})

	t.Run("Message_Too_Large", func(t *testing.T) {
		t.Parallel()
		tag, mt := newTestTag(t)
		err := tag.WriteText(strings.Repeat("x", 150))
		assert.True(t, IsValidationError(err))
		assert.Empty(t, mt.Sent)
	})
}

func TestWriteTextFraming(t *testing.T) {
	t.Parallel()

	tag, mt := newTestTag(t)
	require.NoError(t, tag.WriteText("hi"))
	require.NotEmpty(t, mt.Sent)

	// Reassemble the written bytes from the individual block writes and
	// check the TLV framing around the encoded message.
	var written []byte
	for _, frame := range mt.Sent {
		require.Equal(t, byte(0xD6), frame[1])
		written = append(written, frame[5:]...)
	}
	require.Equal(t, byte(tlvNDEFMessage), written[0])
	length := int(written[1])
	assert.Equal(t, byte(tlvTerminator), written[2+length])
	assert.Zero(t, len(written)%BlockSize)
	// Writes start at the first user block.
	assert.Equal(t, byte(BlockUserStart), mt.Sent[0][3])
}
