package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Knowledge    KnowledgeConfig    `yaml:"knowledge" mapstructure:"knowledge"`
	Catalog      CatalogConfig      `yaml:"catalog" mapstructure:"catalog"`
	Assistant    AssistantConfig    `yaml:"assistant" mapstructure:"assistant"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Metrics      MetricsConfig      `yaml:"metrics" mapstructure:"metrics"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// KnowledgeConfig locates the knowledge base
type KnowledgeConfig struct {
	Source   string `yaml:"source" mapstructure:"source"`     // File path or http(s) URL; empty uses the embedded base
	Format   string `yaml:"format" mapstructure:"format"`     // json, yaml or toml; empty guesses from the source
	Required bool   `yaml:"required" mapstructure:"required"` // Fail startup instead of degrading to an empty base
}

// CatalogConfig locates the file catalog
type CatalogConfig struct {
	Source string `yaml:"source" mapstructure:"source"` // Empty uses the built-in sample files
	Format string `yaml:"format" mapstructure:"format"`
}

// AssistantConfig controls presentation pacing and fallback selection
type AssistantConfig struct {
	ThinkingMin time.Duration `yaml:"thinking_min" mapstructure:"thinking_min"`
	ThinkingMax time.Duration `yaml:"thinking_max" mapstructure:"thinking_max"`
	Seed        uint64        `yaml:"seed" mapstructure:"seed"` // 0 picks fallbacks from a time-seeded source
}

// HTTPConfig is used when a source is a URL
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries    int           `yaml:"max_retries" mapstructure:"max_retries"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls caching of fetched sources
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles fetches per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file,omitempty" mapstructure:"file"` // Empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// MetricsConfig controls the prometheus textfile export
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" mapstructure:"textfile"`
}

// OutputConfig controls response rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json or html
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "MintAssist/0.1 (+https://github.com/minthub/mintassist)",
			MaxBodyBytes:  2_000_000,
			MaxRetries:    3,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
