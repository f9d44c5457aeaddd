package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Valkey      ValkeyConfig      `mapstructure:"valkey"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Log         LogConfig         `mapstructure:"log"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Navigation  NavigationConfig  `mapstructure:"navigation"`
	Chooser     ChooserConfig     `mapstructure:"chooser"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Preference store backends.
const (
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type PreferencesConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	// Scope names the preference slot used by the local CLI.
	Scope string `mapstructure:"scope"`
}

type NavigationConfig struct {
	NativeMapsPrefix    string        `mapstructure:"native_maps_prefix"`
	DisableMapsFallback bool          `mapstructure:"disable_maps_fallback"`
	Opener              string        `mapstructure:"opener"`
	LaunchTimeout       time.Duration `mapstructure:"launch_timeout"`
}

type ChooserConfig struct {
	Title       string `mapstructure:"title"`
	Message     string `mapstructure:"message"`
	CancelLabel string `mapstructure:"cancel_label"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MAPDISPATCH_PREFERENCES_BACKEND → preferences.backend
	v.SetEnvPrefix("MAPDISPATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mapdispatch")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "mapdispatch")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("preferences.backend", BackendValkey)
	v.SetDefault("preferences.sqlite_path", "mapdispatch.db")
	v.SetDefault("preferences.scope", "local")
	v.SetDefault("navigation.native_maps_prefix", "http://maps.apple.com/")
	v.SetDefault("navigation.disable_maps_fallback", false)
	v.SetDefault("navigation.opener", "xdg-open")
	v.SetDefault("navigation.launch_timeout", 30*time.Second)
	v.SetDefault("chooser.title", "Navigation")
	v.SetDefault("chooser.message", "Which app would you like to use for directions?")
	v.SetDefault("chooser.cancel_label", "Cancel")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Preferences.Backend {
	case BackendValkey:
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required for the valkey preference backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	case BackendSQLite:
		if c.Preferences.SQLitePath == "" {
			errs = append(errs, "preferences.sqlite_path is required for the sqlite preference backend")
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("preferences.backend must be one of valkey, postgres, sqlite, memory, got %q", c.Preferences.Backend))
	}
	if c.Preferences.Scope == "" {
		errs = append(errs, "preferences.scope is required")
	}

	switch c.Navigation.NativeMapsPrefix {
	case "http://maps.apple.com/", "maps://":
	default:
		errs = append(errs, fmt.Sprintf("navigation.native_maps_prefix must be http://maps.apple.com/ or maps://, got %q", c.Navigation.NativeMapsPrefix))
	}
	if c.Navigation.LaunchTimeout <= 0 {
		errs = append(errs, "navigation.launch_timeout must be positive")
	}
	if c.Chooser.CancelLabel == "" {
		errs = append(errs, "chooser.cancel_label is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
