package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("valid config with two interfaces", func(t *testing.T) {
		content := `
[general]
fragment_size = 4
frame_time = 0.1

[interface_1]
port = 2442
callsign = "2E0FGO"
frequency = 3578000
offset = 1500
maidenhead = "JO01"

[interface_2]
port = 2443
callsign = "2E0FGO"
frequency = 7078000
offset = 1500
maidenhead = "JO01"
`
		path := writeConfig(t, tempDir, "valid.ini", content)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, 4, cfg.FragmentSize)
		assert.Equal(t, 0.1, cfg.FrameTime)
		require.Len(t, cfg.Interfaces, 2)
		assert.Equal(t, 2442, cfg.Interfaces[0].Port)
		assert.Equal(t, "2E0FGO", cfg.Interfaces[0].Callsign)
		assert.Equal(t, 3578000, cfg.Interfaces[0].Frequency)
		assert.Equal(t, 1500, cfg.Interfaces[0].Offset)
		assert.Equal(t, "JO01", cfg.Interfaces[0].Maidenhead)
	})

	t.Run("missing required key names section and key", func(t *testing.T) {
		content := `
[general]
fragment_size = 4
frame_time = 0.1

[interface_1]
port = 2442
callsign = "2E0FGO"
offset = 1500
maidenhead = "JO01"
`
		path := writeConfig(t, tempDir, "missing_key.ini", content)

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interface_1")
		assert.Contains(t, err.Error(), "frequency")
	})

	t.Run("duplicate port is rejected", func(t *testing.T) {
		content := `
[general]
fragment_size = 4
frame_time = 0.1

[interface_1]
port = 2442
callsign = "A"
frequency = 1
offset = 1
maidenhead = "AA00"

[interface_2]
port = 2442
callsign = "B"
frequency = 1
offset = 1
maidenhead = "AA00"
`
		path := writeConfig(t, tempDir, "dup_port.ini", content)

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already used")
	})

	t.Run("non-numeric field is rejected", func(t *testing.T) {
		content := `
[general]
fragment_size = not-a-number
frame_time = 0.1
`
		path := writeConfig(t, tempDir, "bad_number.ini", content)

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fragment_size")
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tempDir, "does-not-exist.ini"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("requires at least one interface", func(t *testing.T) {
		cfg := &Config{FragmentSize: 4, FrameTime: 0.1}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interface")
	})

	t.Run("requires positive fragment size", func(t *testing.T) {
		cfg := &Config{FragmentSize: 0, FrameTime: 0.1, Interfaces: []Interface{{Port: 1}}}
		err := cfg.Validate()
		require.Error(t, err)
	})
}
