package config

import (
	"errors"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	Timezone             string `mapstructure:"TIMEZONE"`
	ExportDir            string `mapstructure:"EXPORT_DIR"`
	ExportRetentionDays  int    `mapstructure:"EXPORT_RETENTION_DAYS"`
}

const (
	DefaultTimezone            = "Europe/Madrid"
	DefaultExportDir           = "data/exports"
	DefaultExportRetentionDays = 30
)

// defaults also lists every key the environment may set; a nil value binds the
// key without a default.
var defaults = map[string]any{
	"GENERAL_VERSION":       "dev",
	"ENVIRONMENT":           "production",
	"SERVER_PORT":           nil,
	"DB_HOST":               nil,
	"DB_PORT":               5432,
	"DB_NAME":               nil,
	"DB_USER":               nil,
	"DB_PASSWORD":           nil,
	"DB_CACHE_ADDRESS":      nil,
	"DB_CACHE_PORT":         nil,
	"DB_CACHE_RESET":        -1,
	"CORS_ALLOW_ORIGINS":    "*",
	"SCHEDULER_ENABLED":     false,
	"TIMEZONE":              DefaultTimezone,
	"EXPORT_DIR":            DefaultExportDir,
	"EXPORT_RETENTION_DAYS": DefaultExportRetentionDays,
}

// envFiles are read in order when the environment does not carry the
// connection settings; later files override earlier ones.
var envFiles = []string{".env", ".env.local"}

func New() (Config, error) {
	return load(viper.New(), logger.New("config").Function("New"))
}

func load(v *viper.Viper, log logger.Logger) (Config, error) {
	v.AutomaticEnv()

	for key, value := range defaults {
		if err := v.BindEnv(key); err != nil {
			log.Warn("failed to bind environment variable", "env", key, "error", err)
		}
		if value != nil {
			v.SetDefault(key, value)
		}
	}

	if !v.IsSet("SERVER_PORT") || !v.IsSet("DB_HOST") {
		readEnvFiles(v, log)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("could not unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, log.Err("invalid config", err)
	}

	log.Info(
		"Config loaded",
		"environment", config.Environment,
		"port", config.ServerPort,
		"timezone", config.Timezone,
		"scheduler", config.SchedulerEnabled,
	)

	return config, nil
}

func readEnvFiles(v *viper.Viper, log logger.Logger) {
	v.SetConfigType("env")

	for i, file := range envFiles {
		v.SetConfigFile(file)

		read := v.MergeInConfig
		if i == 0 {
			read = v.ReadInConfig
		}

		if err := read(); err != nil {
			log.Debug("env file not loaded", "file", file, "error", err)
			continue
		}
		log.Info("Loaded env file", "file", file)
	}
}

// Location resolves the configured time zone, falling back to UTC when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error

	if c.ServerPort <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be positive, got %d", c.ServerPort))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}

	if c.ExportRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("EXPORT_RETENTION_DAYS cannot be negative, got %d", c.ExportRetentionDays))
	}

	if c.SchedulerEnabled && c.ExportDir == "" {
		errs = append(errs, errors.New("EXPORT_DIR is required when SCHEDULER_ENABLED is set"))
	}

	return errors.Join(errs...)
}
