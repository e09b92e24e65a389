package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the hearing tool.
type Config struct {
	Titles    []string        `yaml:"titles"`
	Source    SourceConfig    `yaml:"source"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Segment   SegmentConfig   `yaml:"segment"`
	Stats     StatsConfig     `yaml:"stats"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig controls how transcripts are read and split into paragraphs.
type SourceConfig struct {
	ParagraphDelimiter string              `yaml:"paragraph_delimiter"`
	StartMarker        string              `yaml:"start_marker"` // Keep text after this marker ("" = from the start)
	EndMarker          string              `yaml:"end_marker"`   // Drop text from this marker on ("" = to the end)
	FetchTimeout       time.Duration       `yaml:"fetch_timeout"`
	Formats            map[string][]string `yaml:"formats"`  // Format name -> glob patterns
	Excludes           []string            `yaml:"excludes"` // Skipped when analyzing a directory
}

// TokenizerConfig selects the tokenizer.
type TokenizerConfig struct {
	Provider string        `yaml:"provider"` // "heuristic" or "remote"
	URL      string        `yaml:"url"`      // Base URL of the remote NLP service
	Timeout  time.Duration `yaml:"timeout"`
}

// SegmentConfig controls turn segmentation.
type SegmentConfig struct {
	FlushTrailing bool `yaml:"flush_trailing"` // Count the last open turn
}

// StatsConfig controls statistics.
type StatsConfig struct {
	WordSplit string `yaml:"word_split"` // "space" or "fields"
	Precision int    `yaml:"precision"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	CacheSize      int           `yaml:"cache_size"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Titles: []string{"Mr.", "Chairman", "Senator", "Chairwoman"},
		Source: SourceConfig{
			ParagraphDelimiter: "    ",
			FetchTimeout:       60 * time.Second,
			Formats: map[string][]string{
				"html":     {"**/*.htm", "**/*.html"},
				"text":     {"**/*.txt", "**/*.text"},
				"markdown": {"**/*.md", "**/*.markdown"},
				"pdf":      {"**/*.pdf"},
				"docx":     {"**/*.docx"},
			},
			Excludes: []string{".git/**", ".hearing/**", "**/node_modules/**"},
		},
		Tokenizer: TokenizerConfig{
			Provider: "heuristic",
			Timeout:  30 * time.Second,
		},
		Stats: StatsConfig{
			WordSplit: "space",
			Precision: 3,
		},
		Server: ServerConfig{
			Addr:           ":8090",
			MaxUploadBytes: 20 << 20,
			CacheSize:      64,
			CacheTTL:       10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for hearing.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try hearing.yaml in the directory
	path := filepath.Join(dir, "hearing.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .hearing/config.yaml
	path = filepath.Join(dir, ".hearing", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from HEARING_* environment variables.
func (c *Config) ApplyEnv() {
	c.Server.Addr = envOr("HEARING_ADDR", c.Server.Addr)
	c.Server.MaxUploadBytes = envInt64("HEARING_MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)
	c.Tokenizer.Provider = envOr("HEARING_TOKENIZER", c.Tokenizer.Provider)
	c.Tokenizer.URL = envOr("HEARING_TOKENIZER_URL", c.Tokenizer.URL)
	c.Tokenizer.Timeout = envDuration("HEARING_TOKENIZER_TIMEOUT", c.Tokenizer.Timeout)
	c.Logging.Level = envOr("HEARING_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envOr("HEARING_LOG_FORMAT", c.Logging.Format)
	if v := os.Getenv("HEARING_TITLES"); v != "" {
		c.Titles = splitList(v)
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Tokenizer.Provider {
	case "heuristic":
	case "remote":
		if c.Tokenizer.URL == "" {
			return fmt.Errorf("tokenizer.url is required for the remote tokenizer")
		}
	default:
		return fmt.Errorf("unknown tokenizer.provider %q", c.Tokenizer.Provider)
	}
	switch c.Stats.WordSplit {
	case "space", "fields":
	default:
		return fmt.Errorf("unknown stats.word_split %q", c.Stats.WordSplit)
	}
	if c.Stats.Precision < 0 || c.Stats.Precision > 10 {
		return fmt.Errorf("stats.precision must be between 0 and 10, got %d", c.Stats.Precision)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown logging.level %q", level)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
