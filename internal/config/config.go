package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig holds server-related settings. AllowedOrigins lists browser
// origins (beyond same-origin) permitted to open the live websocket.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AnalysisConfig holds the tunable thresholds of the voice-analysis core.
// Frames arriving from the capture layer carry byte-scale samples (0-255),
// which is what the amplitude and tremor defaults assume.
type AnalysisConfig struct {
	SampleRate      float64 `mapstructure:"sample_rate"`
	AmplitudeRange  float64 `mapstructure:"amplitude_range"`
	PitchMinHz      float64 `mapstructure:"pitch_min_hz"`
	PitchMaxHz      float64 `mapstructure:"pitch_max_hz"`
	ReferenceEnergy float64 `mapstructure:"reference_energy"`
	TremorThreshold float64 `mapstructure:"tremor_threshold"`
	TremorNormal    float64 `mapstructure:"tremor_normalizer"`

	VolumeMin    float64 `mapstructure:"volume_min"`
	VolumeMax    float64 `mapstructure:"volume_max"`
	ClarityFloor float64 `mapstructure:"clarity_floor"`
	PaceMinWpm   float64 `mapstructure:"pace_min_wpm"`
	PaceMaxWpm   float64 `mapstructure:"pace_max_wpm"`
	SilenceGapMs float64 `mapstructure:"silence_gap_ms"`

	RamblingWordLimit  int     `mapstructure:"rambling_word_limit"`
	RamblingDurationMs float64 `mapstructure:"rambling_duration_ms"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5080")
	v.SetDefault("server.allowed_origins", []string{})

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "compass-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Analysis defaults
	v.SetDefault("analysis.sample_rate", 44100.0)
	v.SetDefault("analysis.amplitude_range", 255.0)
	v.SetDefault("analysis.pitch_min_hz", 85.0)  // lower edge of the speech band
	v.SetDefault("analysis.pitch_max_hz", 400.0) // upper edge of the speech band
	v.SetDefault("analysis.reference_energy", 500000.0)
	v.SetDefault("analysis.tremor_threshold", 8.0)
	v.SetDefault("analysis.tremor_normalizer", 40.0)
	v.SetDefault("analysis.volume_min", 30.0)
	v.SetDefault("analysis.volume_max", 80.0)
	v.SetDefault("analysis.clarity_floor", 40.0)
	v.SetDefault("analysis.pace_min_wpm", 100.0)
	v.SetDefault("analysis.pace_max_wpm", 180.0)
	v.SetDefault("analysis.silence_gap_ms", 1000.0)
	v.SetDefault("analysis.rambling_word_limit", 100)
	v.SetDefault("analysis.rambling_duration_ms", 120000.0)
}

// DefaultAnalysis returns the analysis thresholds as they would be loaded
// with no config file or environment overrides present.
func DefaultAnalysis() AnalysisConfig {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("analysis defaults failed to decode: " + err.Error())
	}
	return cfg.Analysis
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("COMPASS") // e.g., COMPASS_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
