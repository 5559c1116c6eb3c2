package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. VOCABDRILL_DATABASE_DSN
const EnvPrefix = "VOCABDRILL"

// Defaults for every key
const (
	DefaultDriver          = "sqlite3"
	DefaultDSN             = "data/vocabdrill.db"
	DefaultPromotionPolicy = "streak"
	DefaultCandidateWindow = 50
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Load reads the configuration. Environment variables take precedence over
// the config file, which takes precedence over the defaults. configPath may
// be empty.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; variables may come from the real environment
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of cfg
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.dsn", DefaultDSN)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("drill.promotion_policy", DefaultPromotionPolicy)
	v.SetDefault("drill.candidate_window", DefaultCandidateWindow)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("speech.command", "")
	v.SetDefault("speech.args", []string{})
}
