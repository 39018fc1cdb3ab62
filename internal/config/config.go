// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the rfidtool YAML configuration.
package config

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tool configuration.
type Config struct {
	Reader ReaderConfig `yaml:"reader"`
	Auth   AuthConfig   `yaml:"auth"`
}

// ReaderConfig selects and configures the reader.
type ReaderConfig struct {
	// Index is the 0-based PC/SC reader index.
	Index int `yaml:"index"`
	// Buzzer enables the detection beep.
	Buzzer bool `yaml:"buzzer"`
}

// AuthConfig holds the tag authentication key.
type AuthConfig struct {
	// KeyHex is the 16-byte 3DES key as 32 hex characters. Empty means
	// no authentication.
	KeyHex string `yaml:"key_hex"`
}

// Load reads and validates a configuration file. Unknown fields are
// rejected so typos fail loudly.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.Reader.Index < 0 {
		return fmt.Errorf("reader.index must not be negative, got %d", c.Reader.Index)
	}
	if c.Auth.KeyHex != "" {
		key, err := hex.DecodeString(c.Auth.KeyHex)
		if err != nil {
			return fmt.Errorf("auth.key_hex is not valid hex: %w", err)
		}
		if len(key) != 16 {
			return fmt.Errorf("auth.key_hex must decode to 16 bytes, got %d", len(key))
		}
	}
	return nil
}

// Key returns the decoded authentication key, or nil if none is
// configured.
func (c *Config) Key() []byte {
	if c.Auth.KeyHex == "" {
		return nil
	}
	key, err := hex.DecodeString(c.Auth.KeyHex)
	if err != nil {
		return nil
	}
	return key
}
