package config

import "time"

// Config represents the complete dmhook configuration. It is loaded once at
// startup and treated as read-only afterwards.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Webhook WebhookConfig `yaml:"webhook"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`

	// SourceFile is the config file the values were read from, if any.
	SourceFile string `yaml:"-"`
	// SourceHash is the BLAKE3 hash of SourceFile as read.
	SourceHash string `yaml:"-"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// WebhookConfig defines the DM webhook listener.
type WebhookConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`

	// Secret is compared against the x-webhook-secret header. Empty disables
	// authentication unless RequireSecret is set.
	Secret        string `yaml:"secret,omitempty"`
	RequireSecret bool   `yaml:"require_secret"`

	// MaxBodySize accepts plain byte counts or KB/MB/GB suffixes (default: 1MB)
	MaxBodySize string `yaml:"max_body_size"`

	// AllowedPlatforms restricts the platform field. Empty accepts any value.
	AllowedPlatforms []string `yaml:"allowed_platforms,omitempty"`

	// ExposeErrorDetails controls whether server-side error messages are
	// returned to callers in the "details" field.
	ExposeErrorDetails bool `yaml:"expose_error_details"`
}

// StoreConfig selects and configures the datastore backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // supabase | postgres | sqlite

	// supabase
	URL        string `yaml:"url,omitempty"`
	ServiceKey string `yaml:"service_key,omitempty"`

	// postgres
	DSN string `yaml:"dsn,omitempty"`

	// sqlite
	Path string `yaml:"path,omitempty"`

	Table       string        `yaml:"table"`
	Timeout     time.Duration `yaml:"timeout"`
	AutoMigrate bool          `yaml:"auto_migrate"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Default values
const (
	DefaultMaxBodySize = 1048576 // 1 MB
	DefaultTable       = "automated_dms"
	DefaultListen      = ":8000"
)

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "dmhook",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Webhook: WebhookConfig{
			Listen:             DefaultListen,
			Path:               "/",
			MaxBodySize:        "1MB",
			ExposeErrorDetails: true,
		},
		Store: StoreConfig{
			Driver:  DriverSupabase,
			Path:    "./data/dmhook.db",
			Table:   DefaultTable,
			Timeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
