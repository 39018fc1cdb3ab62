// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"bytes"
	"crypto/rand"
	"io"
)

// The mutual-authentication handshake proves to the tag that the host
// knows the shared 3DES key, and to the host that the tag does, without
// either side transmitting the key or a challenge in the clear. Protected
// memory stays inaccessible until the tag has verified the host.
//
// All cipher operations are 3DES in cipher-block-chaining mode. The first
// exchange uses a zero initialization vector; every later operation chains
// from the previous ciphertext, so getting the chaining wrong fails the
// handshake rather than corrupting memory.

// handshakeState tracks progress through the handshake rounds.
type handshakeState int

const (
	hsInit handshakeState = iota
	hsChallengeExchanged
	hsResponseSent
	hsVerified
	hsFailed
)

// Fixed size of both handshake replies relayed back through the reader.
const handshakeReplyLen = 12

// handshake holds the transient state of one authentication run. Nothing
// in here outlives the run.
type handshake struct {
	reader *Reader
	key    []byte // expanded 24-byte 3DES key
	rand   io.Reader
	state  handshakeState
}

func (h *handshake) fail(err error) error {
	h.state = hsFailed
	return err
}

// exchangeChallenge sends the authentication request and returns the
// tag's encrypted challenge Ek(B).
func (h *handshake) exchangeChallenge() ([]byte, error) {
	reply, err := h.reader.TransmitDirect([]byte{dtHost, dtCommunicateThru, tagCmdAuthenticate, 0x00})
	if err != nil {
		return nil, h.fail(err)
	}
	if len(reply) != handshakeReplyLen {
		return nil, h.fail(&ProtocolError{Op: "authenticate: challenge", Expected: handshakeReplyLen, Actual: len(reply)})
	}
	h.state = hsChallengeExchanged
	// The last 8 bytes are the tag's challenge, encrypted under the
	// shared key with a zero IV.
	return reply[len(reply)-8:], nil
}

// sendResponse answers the tag's challenge and returns the tag's
// encrypted proof Ek(A').
func (h *handshake) sendResponse(challengeA, encB []byte) ([]byte, error) {
	zeroIV := make([]byte, 8)
	challengeB, err := tripleDESDecryptCBC(h.key, zeroIV, encB)
	if err != nil {
		return nil, h.fail(err)
	}
	defer zeroBytes(challengeB)

	// A ‖ B', with B' = B rotated left one byte, encrypted with the IV
	// chained from the tag's ciphertext.
	plain := make([]byte, 0, 16)
	plain = append(plain, challengeA...)
	plain = append(plain, rotateLeft1(challengeB)...)
	defer zeroBytes(plain)

	encAB, err := tripleDESEncryptCBC(h.key, encB, plain)
	if err != nil {
		return nil, h.fail(err)
	}
	encAB = encAB[:16]

	frame := append([]byte{dtHost, dtCommunicateThru, tagCmdAuthStep2}, encAB...)
	reply, err := h.reader.TransmitDirect(frame)
	if err != nil {
		return nil, h.fail(err)
	}
	if len(reply) != handshakeReplyLen {
		return nil, h.fail(&ProtocolError{Op: "authenticate: response", Expected: handshakeReplyLen, Actual: len(reply)})
	}
	h.state = hsResponseSent

	// Decrypt the tag's proof chained from the second half of our own
	// ciphertext.
	proof, err := tripleDESDecryptCBC(h.key, encAB[8:16], reply[4:12])
	if err != nil {
		return nil, h.fail(err)
	}
	return proof, nil
}

// verify accepts the run iff the tag echoed our challenge rotated left by
// one byte.
func (h *handshake) verify(challengeA, proof []byte) error {
	expected := rotateLeft1(challengeA)
	defer zeroBytes(expected)
	if !bytes.Equal(proof, expected) {
		return h.fail(&AuthenticationError{Reason: "tag returned wrong challenge transform"})
	}
	h.state = hsVerified
	debugln("handshake verified")
	return nil
}

// run executes the full handshake.
func (h *handshake) run() error {
	challengeA := make([]byte, 8)
	if _, err := io.ReadFull(h.rand, challengeA); err != nil {
		return h.fail(err)
	}
	defer zeroBytes(challengeA)

	encB, err := h.exchangeChallenge()
	if err != nil {
		return err
	}
	proof, err := h.sendResponse(challengeA, encB)
	if err != nil {
		return err
	}
	defer zeroBytes(proof)
	return h.verify(challengeA, proof)
}

// authenticate runs the mutual handshake against the tag with the given
// 16-byte key. randSource supplies the host challenge; production callers
// pass crypto/rand.Reader.
func authenticate(reader *Reader, key []byte, randSource io.Reader) error {
	expanded, err := expandAuthKey(key)
	if err != nil {
		return err
	}
	defer zeroBytes(expanded)
	if randSource == nil {
		randSource = rand.Reader
	}
	h := &handshake{reader: reader, key: expanded, rand: randSource, state: hsInit}
	return h.run()
}
