package config

import (
	"os"
	"path/filepath"
)

// DiscoverConfigFile finds a config file by checking standard locations.
// Priority order: $DMHOOK_CONFIG, ./dmhook.yaml, ~/.config/dmhook/dmhook.yaml, /etc/dmhook/dmhook.yaml.
// An empty result means no file was found and the environment alone is used.
func DiscoverConfigFile() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	candidates := []string{defaultConfigFile}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "dmhook", defaultConfigFile))
	}
	candidates = append(candidates, filepath.Join("/etc", "dmhook", defaultConfigFile))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
