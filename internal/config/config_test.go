// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rfidtool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("Full_Config", func(t *testing.T) {
		t.Parallel()
		path := writeConfigFile(t, `
reader:
  index: 1
  buzzer: true
auth:
  key_hex: "49454d4b41455242214e4143554f5946"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Reader.Index)
		assert.True(t, cfg.Reader.Buzzer)
		assert.Equal(t, []byte("IEMKAERB!NACUOYF"), cfg.Key())
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfigFile(t, "reader:\n  index: 0\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Reader.Index)
		assert.False(t, cfg.Reader.Buzzer)
		assert.Nil(t, cfg.Key())
	})

	t.Run("Unknown_Field", func(t *testing.T) {
		t.Parallel()
		path := writeConfigFile(t, "reader:\n  idnex: 0\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config yaml")
	})

	t.Run("Missing_File", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "Empty", cfg: Config{}},
		{
			name:    "Negative_Index",
			cfg:     Config{Reader: ReaderConfig{Index: -1}},
			wantErr: "must not be negative",
		},
		{
			name:    "Bad_Hex",
			cfg:     Config{Auth: AuthConfig{KeyHex: "zz"}},
			wantErr: "not valid hex",
		},
		{
			name:    "Short_Key",
			cfg:     Config{Auth: AuthConfig{KeyHex: "0011"}},
			wantErr: "16 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
