// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

import (
	"fmt"
	"os"
	"sync/atomic"
)

// debugEnabled gates diagnostic output for the whole package.
var debugEnabled atomic.Bool

// SetDebugEnabled enables or disables debug output to stderr. Debug output
// includes every frame sent and received, so it must never be enabled in
// environments where tag contents are sensitive.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled returns whether debug output is enabled.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		fmt.Fprintf(os.Stderr, "rfid: "+format+"\n", args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		fmt.Fprintln(os.Stderr, append([]any{"rfid:"}, args...)...)
	}
}
