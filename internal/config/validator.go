package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedPaths are served by the operational routes.
var reservedPaths = []string{"/healthz", "/metrics", "/openapi.json"}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}
	if cfg.Service.LogFormat != "json" && cfg.Service.LogFormat != "text" {
		return fmt.Errorf("service.log_format must be one of: json, text (got %q)", cfg.Service.LogFormat)
	}

	if cfg.Webhook.Listen == "" {
		return fmt.Errorf("webhook.listen is required")
	}
	if !strings.HasPrefix(cfg.Webhook.Path, "/") {
		return fmt.Errorf("webhook.path must start with '/' (got %q)", cfg.Webhook.Path)
	}
	if slices.Contains(reservedPaths, cfg.Webhook.Path) {
		return fmt.Errorf("webhook.path %q is reserved", cfg.Webhook.Path)
	}
	if err := checkUnresolved("webhook.secret", cfg.Webhook.Secret); err != nil {
		return err
	}
	if cfg.Webhook.RequireSecret && cfg.Webhook.Secret == "" {
		return fmt.Errorf("webhook.require_secret is set but no secret is configured (set %s or webhook.secret)", EnvWebhookSecret)
	}
	if _, err := parseMaxBodySize(cfg.Webhook.MaxBodySize); err != nil {
		return fmt.Errorf("webhook.max_body_size %q: %w", cfg.Webhook.MaxBodySize, err)
	}
	for i, p := range cfg.Webhook.AllowedPlatforms {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("webhook.allowed_platforms[%d] is empty", i)
		}
	}

	if !tablePattern.MatchString(cfg.Store.Table) {
		return fmt.Errorf("store.table must be a plain identifier (got %q)", cfg.Store.Table)
	}
	if cfg.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}

	switch cfg.Store.Driver {
	case DriverSupabase:
		if err := requireResolved("store.url", cfg.Store.URL, EnvSupabaseURL); err != nil {
			return err
		}
		if err := requireResolved("store.service_key", cfg.Store.ServiceKey, EnvSupabaseKey); err != nil {
			return err
		}
		u, err := url.Parse(cfg.Store.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("store.url must be an absolute URL (got %q)", cfg.Store.URL)
		}
	case DriverPostgres:
		if err := requireResolved("store.dsn", cfg.Store.DSN, EnvDatabaseURL); err != nil {
			return err
		}
	case DriverSQLite:
		if err := requireResolved("store.path", cfg.Store.Path, EnvSQLitePath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("store.driver must be one of: %s, %s, %s (got %q)",
			DriverSupabase, DriverPostgres, DriverSQLite, cfg.Store.Driver)
	}

	return nil
}

func requireResolved(field, value, envName string) error {
	if value == "" {
		return fmt.Errorf("%s is required (set %s)", field, envName)
	}
	return checkUnresolved(field, value)
}

func checkUnresolved(field, value string) error {
	if matches := envVarPattern.FindStringSubmatch(value); len(matches) > 1 {
		return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
	}
	return nil
}
