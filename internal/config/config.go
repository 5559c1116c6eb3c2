// Package config loads vocabdrill settings from defaults, an optional config
// file, a .env file and VOCABDRILL_* environment variables.
package config

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Drill    DrillConfig    `mapstructure:"drill" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Speech   SpeechConfig   `mapstructure:"speech"`
}

// DatabaseConfig selects the progress store
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver" validate:"required,oneof=sqlite3 postgres"`
	DSN         string `mapstructure:"dsn" validate:"required"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DrillConfig tunes the word engine
type DrillConfig struct {
	PromotionPolicy string `mapstructure:"promotion_policy" validate:"required,oneof=streak flat"`
	CandidateWindow int    `mapstructure:"candidate_window" validate:"gte=1"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// SpeechConfig names an external text-to-speech program. An empty command
// keeps the drill silent.
type SpeechConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}
