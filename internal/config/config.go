package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment
	Bot              Bot     `mapstructure:"bot"`      // telegram bot options
	Catalog          Catalog `mapstructure:"catalog"`  // catalog loading options
	HTTP             HTTP    `mapstructure:"http"`     // static data server options
	Session          Session `mapstructure:"session"`  // in-memory session options
	DB               DB      `mapstructure:"database"` // database configuration section
}

// Bot contains telegram bot options.
type Bot struct {
	Debug bool `mapstructure:"debug"` // log raw telegram API traffic
}

// Catalog contains catalog loading options.
type Catalog struct {
	BaseURL string        `mapstructure:"base_url"` // base URL or directory of language catalogs
	DataDir string        `mapstructure:"data_dir"` // directory served under /data/
	Timeout time.Duration `mapstructure:"timeout"`  // timeout of a single catalog fetch
}

// HTTP contains options of the static data server.
type HTTP struct {
	Addr string `mapstructure:"addr"` // listen address, empty disables the server
}

// Session contains options of the in-memory session storage.
type Session struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"` // sessions idle for longer are evicted
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	MigrationsPath  string        `mapstructure:"migrations_path"`   // directory with SQL migrations
	AutoMigrate     bool          `mapstructure:"auto_migrate"`      // apply migrations on startup
}

// Enabled reports whether a database is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(configPath string) (*Config, error) {
	// A missing .env is fine, variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("bot.debug", false)
	v.SetDefault("catalog.base_url", "http://localhost:8080/data")
	v.SetDefault("catalog.data_dir", "assets/data")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.idle_ttl", "1h")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.auto_migrate", true)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("catalog.base_url", "CATALOG_BASE_URL")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")

	return &cfg, nil
}
