// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendGCS    = "gcs"
)

// MaxWorkers caps the per-run worker pool regardless of configuration.
const MaxWorkers = 16

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Source   SourceConfig   `mapstructure:"source"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// SourceConfig describes the catalog site being scraped.
type SourceConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	AjaxPath   string `mapstructure:"ajax_path"`
	AjaxAction string `mapstructure:"ajax_action"`
	AjaxTab    string `mapstructure:"ajax_tab"`
	UserAgent  string `mapstructure:"user_agent"`
}

// HTTPConfig configures outbound HTTP behavior.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// PipelineConfig sets the worker pool defaults.
type PipelineConfig struct {
	DefaultWorkers int `mapstructure:"default_workers"`
}

// MetadataConfig points at the movie-metadata search service.
type MetadataConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Language     string `mapstructure:"language"`
}

// CacheConfig bounds the in-process memo caches.
type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// StorageConfig selects and configures the blob store.
type StorageConfig struct {
	Backend      string `mapstructure:"backend"`
	GCSBucket    string `mapstructure:"gcs_bucket"`
	LocalDir     string `mapstructure:"local_dir"`
	PosterFolder string `mapstructure:"poster_folder"`
}

// SnapshotConfig controls where catalog snapshots are written.
type SnapshotConfig struct {
	Path   string `mapstructure:"path"`
	Object string `mapstructure:"object"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
	v.SetDefault("source.base_url", "https://a.mkvking.homes/")
	v.SetDefault("source.ajax_path", "wp-admin/admin-ajax.php")
	v.SetDefault("source.ajax_action", "muvipro_player_content")
	v.SetDefault("source.ajax_tab", "player2")
	v.SetDefault("source.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("pipeline.default_workers", 8)
	v.SetDefault("metadata.api_key", "")
	v.SetDefault("metadata.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("metadata.image_base_url", "https://image.tmdb.org/t/p/original")
	v.SetDefault("metadata.language", "en-US")
	v.SetDefault("cache.max_entries", 2048)
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.gcs_bucket", "")
	v.SetDefault("storage.local_dir", "data/blobs")
	v.SetDefault("storage.poster_folder", "movie_posters")
	v.SetDefault("snapshot.path", "movies.json")
	v.SetDefault("snapshot.object", "snapshots/movies.json")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Pipeline.DefaultWorkers < 1 || c.Pipeline.DefaultWorkers > MaxWorkers {
		return fmt.Errorf("pipeline.default_workers must be between 1 and %d", MaxWorkers)
	}
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source.base_url must be an absolute URL, got %q", c.Source.BaseURL)
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendLocal:
	case BackendGCS:
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("storage.gcs_bucket must be set when storage.backend is %q", BackendGCS)
		}
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, local, gcs", c.Storage.Backend)
	}
	return nil
}

// RequestTimeout converts the HTTP timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// AjaxEndpoint resolves the embed endpoint against the source base URL.
func (c Config) AjaxEndpoint() string {
	return strings.TrimRight(c.Source.BaseURL, "/") + "/" + strings.TrimLeft(c.Source.AjaxPath, "/")
}
