package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, 2.0, cfg.Console.ReplyTimeoutSec)
	assert.Equal(t, 0.05, cfg.Feeding.Small)
	assert.Equal(t, 0.10, cfg.Feeding.Medium)
	assert.Equal(t, 0.20, cfg.Feeding.Large)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeder.yaml")
	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
  baud: 9600

console:
  show_wire: true

feeding:
  medium: 0.12
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.True(t, cfg.Console.ShowWire)
	assert.Equal(t, 0.12, cfg.Feeding.Medium)
	// Unset fields keep defaults.
	assert.Equal(t, 0.05, cfg.Feeding.Small)
	assert.Equal(t, 2.0, cfg.Console.ReplyTimeoutSec)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeder.yaml")

	cfg := Default()
	cfg.Serial.Port = "COM7"
	cfg.Feeding.Large = 0.25
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
