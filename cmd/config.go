package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"shopfloor/internal/adapters/out/postgres"
	"shopfloor/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTPPort        string
	StorageDriver   string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSslMode       string
	LogLevel        slog.Level
	LogFormat       string
	MetricsSchedule string
	StalledSchedule string
	StalledAfter    time.Duration
}

// configKeys lists every recognised key. The same names are used in the TOML
// file, in .env and in the process environment.
var configKeys = []string{
	"HTTP_PORT",
	"STORAGE_DRIVER",
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"DB_SSLMODE",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"METRICS_SCHEDULE",
	"STALLED_SCHEDULE",
	"STALLED_AFTER",
}

func defaultValues() map[string]string {
	return map[string]string{
		"HTTP_PORT":        "8080",
		"STORAGE_DRIVER":   StorageDriverPostgres,
		"DB_HOST":          "localhost",
		"DB_PORT":          "5432",
		"DB_SSLMODE":       "disable",
		"LOG_LEVEL":        "info",
		"LOG_FORMAT":       "text",
		"METRICS_SCHEDULE": "@every 30s",
		"STALLED_SCHEDULE": "@every 5m",
		"STALLED_AFTER":    "4h",
	}
}

// LoadConfig reads the optional TOML file named by CONFIG_FILE, then .env,
// then the process environment. Later sources win.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(os.Getenv("CONFIG_FILE"), ".env", os.LookupEnv)
}

// LoadConfigFrom is LoadConfig with explicit sources. Empty paths are skipped
// and a missing .env file is not an error.
func LoadConfigFrom(configFile, envFile string, lookup func(string) (string, bool)) (Config, error) {
	values := defaultValues()

	if configFile != "" {
		if err := mergeTOML(values, configFile); err != nil {
			return Config{}, err
		}
	}

	if envFile != "" {
		env, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
		for _, key := range configKeys {
			if v, ok := env[key]; ok {
				values[key] = v
			}
		}
	}

	for _, key := range configKeys {
		if v, ok := lookup(key); ok {
			values[key] = v
		}
	}

	return parseConfig(values)
}

func mergeTOML(values map[string]string, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file map[string]any
	if err = toml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	for key, v := range file {
		upper := strings.ToUpper(key)
		if !isConfigKey(upper) {
			return errs.NewValueIsInvalidErrorWithCause("config key", fmt.Errorf("unknown key %q in %s", key, path))
		}
		values[upper] = fmt.Sprint(v)
	}
	return nil
}

func isConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

func parseConfig(values map[string]string) (Config, error) {
	cfg := Config{
		HTTPPort:        values["HTTP_PORT"],
		StorageDriver:   strings.ToLower(values["STORAGE_DRIVER"]),
		DBHost:          values["DB_HOST"],
		DBPort:          values["DB_PORT"],
		DBUser:          values["DB_USER"],
		DBPassword:      values["DB_PASSWORD"],
		DBName:          values["DB_NAME"],
		DBSslMode:       values["DB_SSLMODE"],
		LogFormat:       strings.ToLower(values["LOG_FORMAT"]),
		MetricsSchedule: values["METRICS_SCHEDULE"],
		StalledSchedule: values["STALLED_SCHEDULE"],
	}

	var problems []error
	if cfg.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DBName == "" {
			problems = append(problems, errs.NewValueIsRequiredError("DB_NAME"))
		}
	case StorageDriverMemory:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("STORAGE_DRIVER",
			fmt.Errorf("%q is neither %s nor %s", cfg.StorageDriver, StorageDriverPostgres, StorageDriverMemory)))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(values["LOG_LEVEL"])); err != nil {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("LOG_FORMAT",
			fmt.Errorf("%q is neither text nor json", cfg.LogFormat)))
	}
	stalledAfter, err := time.ParseDuration(values["STALLED_AFTER"])
	switch {
	case err != nil:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("STALLED_AFTER", err))
	case stalledAfter <= 0:
		problems = append(problems, errs.NewValueIsOutOfRangeError("STALLED_AFTER", stalledAfter, time.Second, "unbounded"))
	default:
		cfg.StalledAfter = stalledAfter
	}

	if len(problems) > 0 {
		return Config{}, errors.Join(problems...)
	}
	return cfg, nil
}

// DBOptions returns the PostgreSQL connection settings.
func (c Config) DBOptions() postgres.Options {
	return postgres.Options{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}
