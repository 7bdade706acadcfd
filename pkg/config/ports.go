package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ec2tui/pkg/logging"

	"gopkg.in/yaml.v3"
)

// DefaultPortsFilePath is where port presets are read from unless overridden.
const DefaultPortsFilePath = "port-forwards.yaml"

// Preset is one predefined port mapping offered in the add-forward form.
type Preset struct {
	Key        string `yaml:"key"`
	Label      string `yaml:"label"`
	RemotePort int    `yaml:"remote_port"`
	LocalPort  int    `yaml:"local_port"`
}

// PortConfig holds the add-forward form defaults and the preset list.
type PortConfig struct {
	DefaultRemotePort int      `yaml:"default_remote_port"`
	DefaultLocalPort  int      `yaml:"default_local_port"`
	Presets           []Preset `yaml:"presets"`
}

// DefaultPortConfig is used when no config file exists.
var DefaultPortConfig = PortConfig{
	DefaultRemotePort: 22,
	DefaultLocalPort:  2222,
	Presets: []Preset{
		{Key: "ssh", Label: "SSH (22)", RemotePort: 22, LocalPort: 2222},
		{Key: "http", Label: "HTTP (80)", RemotePort: 80, LocalPort: 8080},
		{Key: "https", Label: "HTTPS (443)", RemotePort: 443, LocalPort: 8443},
		{Key: "postgres", Label: "PostgreSQL (5432)", RemotePort: 5432, LocalPort: 5432},
		{Key: "mysql", Label: "MySQL (3306)", RemotePort: 3306, LocalPort: 3306},
		{Key: "redis", Label: "Redis (6379)", RemotePort: 6379, LocalPort: 6379},
		{Key: "mongodb", Label: "MongoDB (27017)", RemotePort: 27017, LocalPort: 27017},
		{Key: "rdp", Label: "RDP (3389)", RemotePort: 3389, LocalPort: 3389},
		{Key: "rabbitmq-amqp", Label: "RabbitMQ AMQP (5672)", RemotePort: 5672, LocalPort: 5672},
		{Key: "rabbitmq-amqps", Label: "RabbitMQ AMQP SSL (5671)", RemotePort: 5671, LocalPort: 5671},
		{Key: "rabbitmq-admin", Label: "RabbitMQ Admin (15672)", RemotePort: 15672, LocalPort: 15672},
		{Key: "rabbitmq-admin-ssl", Label: "RabbitMQ Admin SSL (15671)", RemotePort: 15671, LocalPort: 15671},
	},
}

// expandHomeDir replaces a leading ~ with the user's home directory.
func expandHomeDir(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// LoadPortConfig reads the preset file at path (the default path when
// blank). Loading is lenient: a missing file yields the defaults, invalid
// port values fall back, and malformed presets are skipped. It never fails
// hard — presets are a convenience, not a requirement.
func LoadPortConfig(path string) PortConfig {
	if path == "" {
		path = DefaultPortsFilePath
	}
	expanded, err := expandHomeDir(path)
	if err != nil {
		logging.LogError("Failed to resolve ports config path %s: %v", path, err)
		return DefaultPortConfig
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.LogError("Failed to read ports config %s: %v", expanded, err)
		}
		return DefaultPortConfig
	}

	var loaded PortConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		logging.LogError("Failed to parse ports config %s: %v", expanded, err)
		return DefaultPortConfig
	}

	cfg := PortConfig{
		DefaultRemotePort: coercePort(loaded.DefaultRemotePort, DefaultPortConfig.DefaultRemotePort),
		DefaultLocalPort:  coercePort(loaded.DefaultLocalPort, DefaultPortConfig.DefaultLocalPort),
	}
	for _, preset := range loaded.Presets {
		key := strings.TrimSpace(preset.Key)
		if key == "" {
			continue
		}
		remote := coercePort(preset.RemotePort, 0)
		if remote == 0 {
			continue
		}
		local := coercePort(preset.LocalPort, remote)
		label := strings.TrimSpace(preset.Label)
		if label == "" {
			label = key
		}
		cfg.Presets = append(cfg.Presets, Preset{
			Key:        key,
			Label:      label,
			RemotePort: remote,
			LocalPort:  local,
		})
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = DefaultPortConfig.Presets
	}
	return cfg
}

func coercePort(value, fallback int) int {
	if value >= 1 && value <= 65535 {
		return value
	}
	return fallback
}
