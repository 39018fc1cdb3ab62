// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"crypto/cipher"
	"crypto/des"
	"fmt"
)

// AuthKeySize is the size of the tag's 3DES authentication key.
const AuthKeySize = 16

// expandAuthKey turns the tag's 16-byte two-key 3DES key into the 24-byte
// K1‖K2‖K1 form crypto/des expects. The Ultralight C key is two-key
// 3DES, so the first leg is repeated as the third.
func expandAuthKey(key []byte) ([]byte, error) {
	switch len(key) {
	case AuthKeySize:
		expanded := make([]byte, 24)
		copy(expanded, key)
		copy(expanded[16:], key[:8])
		return expanded, nil
	case 24:
		// Copy so the caller's key survives the post-handshake wipe.
		expanded := make([]byte, 24)
		copy(expanded, key)
		return expanded, nil
	default:
		return nil, validationErrorf("expandAuthKey", "key must be %d bytes, got %d", AuthKeySize, len(key))
	}
}

func tripleDESEncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	if len(plaintext)%des.BlockSize != 0 {
		return nil, fmt.Errorf("CBC encrypt: input not block aligned (%d bytes)", len(plaintext))
	}
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, fmt.Errorf("CBC encrypt: %w", err)
	}
	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
	return out, nil
}

func tripleDESDecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%des.BlockSize != 0 {
		return nil, fmt.Errorf("CBC decrypt: input not block aligned (%d bytes)", len(ciphertext))
	}
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, fmt.Errorf("CBC decrypt: %w", err)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

// rotateLeft1 rotates a byte slice left by one byte.
func rotateLeft1(in []byte) []byte {
	out := make([]byte, len(in))
	if len(in) == 0 {
		return out
	}
	copy(out, in[1:])
	out[len(in)-1] = in[0]
	return out
}

// zeroBytes overwrites transient cryptographic material.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
