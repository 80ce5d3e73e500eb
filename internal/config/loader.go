package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Environment variables that override file values when set.
const (
	EnvWebhookSecret = "WEBHOOK_SECRET"
	EnvSupabaseURL   = "SUPABASE_URL"
	EnvSupabaseKey   = "SUPABASE_SERVICE_ROLE_KEY"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvListen        = "DMHOOK_LISTEN"
	EnvPort          = "PORT"
	EnvLogLevel      = "DMHOOK_LOG_LEVEL"
	EnvStoreDriver   = "DMHOOK_STORE_DRIVER"
	EnvSQLitePath    = "DMHOOK_SQLITE_PATH"
	EnvConfigPath    = "DMHOOK_CONFIG"
)

const (
	defaultDotEnvFile   = ".env"
	defaultConfigFile   = "dmhook.yaml"
	redactedPlaceholder = "********"
)

// Load builds the configuration: defaults, then the YAML file at configPath
// (if non-empty), then environment overrides. A .env file in the working
// directory is loaded first without overriding the real environment.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(defaultDotEnvFile); err != nil {
		return nil, err
	}

	cfg := Defaults()

	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("config file not found: %s\n"+
				"Hint: Check the path or run with --config flag", absPath)
		}
		if info.IsDir() {
			absPath = filepath.Join(absPath, defaultConfigFile)
		}

		if err := loadConfigFile(cfg, absPath); err != nil {
			return nil, err
		}
		cfg.SourceFile = absPath
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadConfigFile reads a YAML file over cfg, interpolating ${VAR} first.
// Keys absent from the file keep their current values.
func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	interpolated := interpolateEnv(string(data))
	cfg.SourceHash = hashBytes(data)

	if err := yaml.Unmarshal([]byte(interpolated), cfg); err != nil {
		return fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}
	return nil
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is (not expanded).
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}

		// Left in place; validate reports it if the field is actually used.
		return match
	})
}

// applyEnvOverrides copies well-known environment variables over cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvWebhookSecret); v != "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv(EnvSupabaseURL); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv(EnvSupabaseKey); v != "" {
		cfg.Store.ServiceKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		cfg.Webhook.Listen = ":" + v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Webhook.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Service.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvStoreDriver); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.Store.Path = v
	}
}

// PlatformAllowed reports whether platform passes webhook.allowed_platforms.
func (c *Config) PlatformAllowed(platform string) bool {
	if len(c.Webhook.AllowedPlatforms) == 0 {
		return true
	}
	return slices.ContainsFunc(c.Webhook.AllowedPlatforms, func(p string) bool {
		return strings.EqualFold(p, platform)
	})
}

// Redacted returns a copy with credentials masked, suitable for printing.
func (c *Config) Redacted() *Config {
	out := *c
	out.Webhook.AllowedPlatforms = slices.Clone(c.Webhook.AllowedPlatforms)
	if out.Webhook.Secret != "" {
		out.Webhook.Secret = redactedPlaceholder
	}
	if out.Store.ServiceKey != "" {
		out.Store.ServiceKey = redactedPlaceholder
	}
	if out.Store.DSN != "" {
		out.Store.DSN = redactDSN(out.Store.DSN)
	}
	return &out
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		// key=value DSNs may carry a password anywhere; hide the whole thing.
		if strings.Contains(dsn, "password") {
			return redactedPlaceholder
		}
		return dsn
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), redactedPlaceholder)
	}
	return u.String()
}

// Summary is a short human-readable description used by `config check`.
func (c *Config) Summary() string {
	var b strings.Builder
	source := c.SourceFile
	if source == "" {
		source = "(environment only)"
	}
	fmt.Fprintf(&b, "source:    %s\n", source)
	if c.SourceHash != "" {
		fmt.Fprintf(&b, "blake3:    %s\n", c.SourceHash)
	}
	fmt.Fprintf(&b, "listen:    %s%s\n", c.Webhook.Listen, c.Webhook.Path)
	fmt.Fprintf(&b, "auth:      %s\n", c.Auth().Mode)
	fmt.Fprintf(&b, "store:     %s (table %s)\n", c.Store.Driver, c.Store.Table)
	if len(c.Webhook.AllowedPlatforms) > 0 {
		fmt.Fprintf(&b, "platforms: %s\n", strings.Join(c.Webhook.AllowedPlatforms, ", "))
	} else {
		fmt.Fprintf(&b, "platforms: any\n")
	}
	fmt.Fprintf(&b, "metrics:   %t\n", c.Metrics.Enabled)
	return b.String()
}
