// Package config loads client settings from flags, files, .env and MEDDOC_ variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/meddoc/internal/common"
)

// EnvPrefix is the prefix for environment overrides, e.g. MEDDOC_API_BASE_URL.
const EnvPrefix = "MEDDOC"

// Upload modes.
const (
	UploadModeMinimal = "minimal"
	UploadModePatient = "patient"
)

// Evaluation report sources.
const (
	EvalSourceAPI     = "api"
	EvalSourceStorage = "storage"
	EvalSourceAuto    = "auto"
)

// Config is the complete client configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Eval    EvalConfig    `mapstructure:"eval"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	API     APIConfig     `mapstructure:"api"`
	Query   QueryConfig   `mapstructure:"query"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	RetryAttempts       int           `mapstructure:"retry_attempts"`
	AIRequestsPerMinute int           `mapstructure:"ai_requests_per_minute"`
}

// QueryConfig configures the query cache.
type QueryConfig struct {
	StaleTime time.Duration `mapstructure:"stale_time"`
	GCTime    time.Duration `mapstructure:"gc_time"`
}

// UploadConfig selects the upload flow.
type UploadConfig struct {
	Mode string `mapstructure:"mode"`
}

// EvalConfig selects where the evaluation report comes from.
type EvalConfig struct {
	Source      string        `mapstructure:"source"`
	FallbackURL string        `mapstructure:"fallback_url"`
	Storage     StorageConfig `mapstructure:"storage"`
}

// StorageConfig locates the report object in S3-compatible storage.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Object    string `mapstructure:"object"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Configured reports whether enough is set to reach the bucket.
func (s StorageConfig) Configured() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.Object != ""
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the optional metrics listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.retry_attempts", 3)
	v.SetDefault("api.ai_requests_per_minute", 30)
	v.SetDefault("query.stale_time", 30*time.Second)
	v.SetDefault("query.gc_time", 5*time.Minute)
	v.SetDefault("upload.mode", UploadModeMinimal)
	v.SetDefault("eval.source", EvalSourceAuto)
	v.SetDefault("eval.fallback_url", "")
	v.SetDefault("eval.storage.endpoint", "")
	v.SetDefault("eval.storage.bucket", "")
	v.SetDefault("eval.storage.object", "eval/latest.json")
	v.SetDefault("eval.storage.access_key", "")
	v.SetDefault("eval.storage.secret_key", "")
	v.SetDefault("eval.storage.use_ssl", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.addr", "")
}

// BindEnv makes MEDDOC_SECTION_KEY variables override section.key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none are named.
// Missing files are ignored. Variables already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		path := ExpandPath(f)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// LoadFrom decodes and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the global viper instance, which cmd/meddoc has bound to flags and files.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	c.Upload.Mode = strings.ToLower(strings.TrimSpace(c.Upload.Mode))
	c.Eval.Source = strings.ToLower(strings.TrimSpace(c.Eval.Source))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate checks enumerated settings and numeric ranges.
func (c *Config) Validate() error {
	switch c.Upload.Mode {
	case UploadModeMinimal, UploadModePatient:
	default:
		return fmt.Errorf("%w: upload.mode must be %q or %q, got %q",
			common.ErrInvalidConfig, UploadModeMinimal, UploadModePatient, c.Upload.Mode)
	}

	if err := ValidateEval(c.Eval); err != nil {
		return err
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.API.RetryAttempts < 1 {
		return fmt.Errorf("%w: api.retry_attempts must be at least 1", common.ErrInvalidConfig)
	}
	if c.Query.StaleTime < 0 || c.Query.GCTime < 0 {
		return fmt.Errorf("%w: query durations must not be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ValidateEval checks the evaluation report source. The storage source needs somewhere to read from.
func ValidateEval(e EvalConfig) error {
	switch strings.ToLower(strings.TrimSpace(e.Source)) {
	case EvalSourceAPI, EvalSourceAuto:
	case EvalSourceStorage:
		if e.FallbackURL == "" && !e.Storage.Configured() {
			return fmt.Errorf("%w: eval.source %q needs eval.fallback_url or eval.storage endpoint, bucket and object",
				common.ErrMissingConfig, EvalSourceStorage)
		}
	default:
		return fmt.Errorf("%w: eval.source must be one of api, storage, auto, got %q",
			common.ErrInvalidConfig, e.Source)
	}
	return nil
}

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
