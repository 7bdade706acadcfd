package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePortsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "port-forwards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPortConfigMissingFile(t *testing.T) {
	cfg := LoadPortConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, DefaultPortConfig, cfg)
}

func TestLoadPortConfigMalformedYAML(t *testing.T) {
	path := writePortsFile(t, "presets: [not: closed")
	cfg := LoadPortConfig(path)
	assert.Equal(t, DefaultPortConfig, cfg)
}

func TestLoadPortConfigValidFile(t *testing.T) {
	path := writePortsFile(t, `
default_remote_port: 443
default_local_port: 9443
presets:
  - key: grafana
    label: Grafana (3000)
    remote_port: 3000
    local_port: 3000
  - key: api
    remote_port: 8000
`)
	cfg := LoadPortConfig(path)

	assert.Equal(t, 443, cfg.DefaultRemotePort)
	assert.Equal(t, 9443, cfg.DefaultLocalPort)
	require.Len(t, cfg.Presets, 2)
	assert.Equal(t, "Grafana (3000)", cfg.Presets[0].Label)
	// Missing label falls back to the key, missing local port to the remote
	assert.Equal(t, "api", cfg.Presets[1].Label)
	assert.Equal(t, 8000, cfg.Presets[1].LocalPort)
}

func TestLoadPortConfigSkipsBadPresets(t *testing.T) {
	path := writePortsFile(t, `
presets:
  - key: ""
    remote_port: 80
  - key: badport
    remote_port: 99999
  - key: good
    remote_port: 80
    local_port: 8080
`)
	cfg := LoadPortConfig(path)

	// Defaults survive when the file leaves them out
	assert.Equal(t, DefaultPortConfig.DefaultRemotePort, cfg.DefaultRemotePort)
	assert.Equal(t, DefaultPortConfig.DefaultLocalPort, cfg.DefaultLocalPort)
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, "good", cfg.Presets[0].Key)
}

func TestLoadPortConfigEmptyPresetsFallsBack(t *testing.T) {
	path := writePortsFile(t, "default_remote_port: 80\n")
	cfg := LoadPortConfig(path)

	assert.Equal(t, 80, cfg.DefaultRemotePort)
	assert.Equal(t, DefaultPortConfig.Presets, cfg.Presets)
}

func TestCoercePort(t *testing.T) {
	assert.Equal(t, 8080, coercePort(8080, 22))
	assert.Equal(t, 22, coercePort(0, 22))
	assert.Equal(t, 22, coercePort(70000, 22))
	assert.Equal(t, 22, coercePort(-5, 22))
}
