// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package rfid drives PC/SC smart-card readers of the ACR122U family to
// read and write MIFARE Ultralight C contactless tags.
//
// The package is organized as three layers. The frame codec builds the
// pseudo-APDU frames the reader understands and parses their two-byte
// status trailer. The reader command layer maps high-level operations
// (key loading, block I/O, LED and buzzer control, firmware queries,
// pass-through transmission) onto those frames using the reader's
// instruction codes. The tag layer enforces the Ultralight C address
// space, assembles and validates the tag UID, manages the tag's
// authentication configuration, and runs the 3DES mutual-authentication
// handshake that must be passed before protected memory is accessible.
//
// Basic usage:
//
//	t, err := pcsc.Connect(0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer t.Close()
//
//	reader, err := rfid.New(t)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tag := rfid.NewUltralightC(reader)
//	uid, err := tag.UID()
//
// All operations are strictly sequential: the physical channel is
// half-duplex and single-owner, so exactly one request may be in flight
// at a time. Neither Reader nor UltralightC is safe for concurrent use;
// callers needing concurrency must serialize access themselves.
//
// The core performs no retries and no timeouts. A failure in the middle
// of a multi-block write leaves blocks already written in place; the
// medium offers no atomicity.
package rfid
