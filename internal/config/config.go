// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage provider names accepted by storage.provider.
const (
	StorageGCS    = "gcs"
	StorageLocal  = "local"
	StorageMemory = "memory"
)

// Config captures all knobs loaded via Viper.
type Config struct {
	OJA     OJAConfig     `mapstructure:"oja"`
	Site    SiteConfig    `mapstructure:"site"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// OJAConfig holds the deployment keys of the awards run.
type OJAConfig struct {
	SlackWebhookURL string `mapstructure:"slack_webhook_url"`
	BucketName      string `mapstructure:"bucket_name"`
	FolderPath      string `mapstructure:"folder_path"`
	GCSLinkURL      string `mapstructure:"gcs_link_url"`
}

// SiteConfig points the crawler at the awards site.
type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig configures outbound requests.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`

	// RequestsPerSecond paces fetches per host; zero leaves them unpaced.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// StorageConfig selects and configures the blob backend.
type StorageConfig struct {
	Provider string             `mapstructure:"provider"`
	GCS      GCSStorageConfig   `mapstructure:"gcs"`
	Local    LocalStorageConfig `mapstructure:"local"`
}

// GCSStorageConfig allows pointing the GCS client at an emulator.
type GCSStorageConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// LocalStorageConfig sets the root directory for the local backend.
type LocalStorageConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	File        string `mapstructure:"file"`
	Level       string `mapstructure:"level"`
	Truncate    bool   `mapstructure:"truncate"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// legacyEnv maps config keys onto the bare environment names used by older deployments.
var legacyEnv = map[string]string{
	"oja.slack_webhook_url": "SLACK_WEBHOOK_URL",
	"oja.bucket_name":       "BUCKET_NAME",
	"oja.folder_path":       "FOLDER_PATH",
	"oja.gcs_link_url":      "GCS_LINK_URL",
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OJA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, env := range legacyEnv {
		prefixed := "OJA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("oja.slack_webhook_url", "")
	v.SetDefault("oja.bucket_name", "")
	v.SetDefault("oja.folder_path", "")
	v.SetDefault("oja.gcs_link_url", "")
	v.SetDefault("site.base_url", "https://awards.journalists.org")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.user_agent", "oja-awards-crawler/1.0")
	v.SetDefault("http.requests_per_second", 0)
	v.SetDefault("http.burst", 1)
	v.SetDefault("storage.provider", StorageGCS)
	v.SetDefault("storage.gcs.endpoint", "")
	v.SetDefault("storage.local.base_dir", "data/oja")
	v.SetDefault("logging.file", "debug.log")
	v.SetDefault("logging.level", "debug")
	v.SetDefault("logging.truncate", true)
	v.SetDefault("logging.development", false)
	v.SetDefault("metrics.textfile_path", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OJA.SlackWebhookURL) == "" {
		return fmt.Errorf("oja.slack_webhook_url must be set")
	}
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0")
	}
	switch c.Storage.Provider {
	case StorageGCS:
		if strings.TrimSpace(c.OJA.BucketName) == "" {
			return fmt.Errorf("oja.bucket_name must be set when storage.provider is %q", StorageGCS)
		}
	case StorageLocal:
		if strings.TrimSpace(c.Storage.Local.BaseDir) == "" {
			return fmt.Errorf("storage.local.base_dir must be set when storage.provider is %q", StorageLocal)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("storage.provider %q is not supported", c.Storage.Provider)
	}
	return nil
}

// RequestTimeout converts the HTTP timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BaseURL returns the site root without a trailing slash.
func (c Config) BaseURL() string {
	return strings.TrimRight(c.Site.BaseURL, "/")
}
