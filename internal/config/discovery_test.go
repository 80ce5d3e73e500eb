package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverConfigFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if got := DiscoverConfigFile(); got != "" {
		t.Fatalf("DiscoverConfigFile() = %q, want empty", got)
	}

	userConfig := filepath.Join(home, ".config", "dmhook", defaultConfigFile)
	if err := os.MkdirAll(filepath.Dir(userConfig), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userConfig, []byte("service:\n  name: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := DiscoverConfigFile(); got != userConfig {
		t.Errorf("DiscoverConfigFile() = %q, want %q", got, userConfig)
	}

	if err := os.WriteFile(defaultConfigFile, []byte("service:\n  name: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := DiscoverConfigFile(); got != defaultConfigFile {
		t.Errorf("DiscoverConfigFile() = %q, want working directory file", got)
	}

	t.Setenv(EnvConfigPath, "/srv/dmhook/custom.yaml")
	if got := DiscoverConfigFile(); got != "/srv/dmhook/custom.yaml" {
		t.Errorf("DiscoverConfigFile() = %q, want env path", got)
	}
}
