// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package rfid

// Option is a functional option for configuring a Reader.
type Option func(*Reader) error

// WithBuzzerOnDetection sets the reader's detection beep during New.
func WithBuzzerOnDetection(enabled bool) Option {
	return func(r *Reader) error {
		return r.SetBuzzerOnDetection(enabled)
	}
}

// WithPICCOperatingParameter applies a polling configuration during New.
func WithPICCOperatingParameter(param PICCOperatingParameter) Option {
	return func(r *Reader) error {
		return r.SetPICCOperatingParameter(param)
	}
}

// WithDebug enables package debug output during New.
func WithDebug(enabled bool) Option {
	return func(*Reader) error {
		SetDebugEnabled(enabled)
		return nil
	}
}
