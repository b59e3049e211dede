package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"exegesis/internal/history"
	"exegesis/internal/study"
)

// Config holds all exegesis configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Study    StudyConfig    `yaml:"study"`
	History  HistoryConfig  `yaml:"history"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
	Artifact ArtifactConfig `yaml:"artifact"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StudyConfig holds the defaults applied when a flag or request field is
// left empty.
type StudyConfig struct {
	DefaultTranslation string `yaml:"default_translation"`
	DefaultDepth       string `yaml:"default_depth"`
}

// HistoryConfig selects where recent queries are kept.
type HistoryConfig struct {
	Backend       string `yaml:"backend"` // sqlite, file, redis, none
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	Limit         int    `yaml:"limit"`
}

// ExportConfig configures file output.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
	ChromeBin string `yaml:"chrome_bin"` // empty = rod finds or downloads one
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ShareBaseURL   string   `yaml:"share_base_url"`
	RequestTimeout string   `yaml:"request_timeout"`
}

// ArtifactConfig configures publication to S3-compatible storage.
type ArtifactConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	LinkExpiry string `yaml:"link_expiry"`
}

// DefaultDir returns ~/.exegesis, or .exegesis when the home directory is
// unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".exegesis"
	}
	return filepath.Join(home, ".exegesis")
}

// DefaultPath returns the config file used when --config is not given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     "120s",
			MaxAttempts: 3,
			BaseDelay:   "1s",
		},

		Study: StudyConfig{
			DefaultTranslation: string(study.DefaultTranslation),
			DefaultDepth:       string(study.DefaultDepth),
		},

		History: HistoryConfig{
			Backend: history.BackendSQLite,
			Path:    filepath.Join(DefaultDir(), "exegesis.db"),
			Limit:   history.DefaultLimit,
		},

		Export: ExportConfig{
			OutputDir: ".",
		},

		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RequestTimeout: "180s",
		},

		Artifact: ArtifactConfig{
			Bucket:     "exegesis",
			LinkExpiry: "24h",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// apiKeyEnv lists the key variables, lowest priority first.
var apiKeyEnv = []string{"GOOGLE_API_KEY", "API_KEY", "GEMINI_API_KEY"}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	for _, name := range apiKeyEnv {
		if key := os.Getenv(name); key != "" {
			c.LLM.APIKey = key
		}
	}
	if model := os.Getenv("EXEGESIS_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if path := os.Getenv("EXEGESIS_DB"); path != "" {
		c.History.Path = path
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.History.RedisAddr = addr
		if c.History.Backend == history.BackendSQLite {
			c.History.Backend = history.BackendRedis
		}
	}

	if addr := os.Getenv("EXEGESIS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// ValidHistoryBackends lists the accepted history.backend values.
var ValidHistoryBackends = []string{
	history.BackendSQLite, history.BackendFile, history.BackendRedis, history.BackendNone,
}

// Validate checks everything that does not need the network. The API key
// is checked separately by RequireAPIKey so offline commands still work.
func (c *Config) Validate() error {
	if _, err := c.Translation(); err != nil {
		return fmt.Errorf("study.default_translation: %w", err)
	}
	if _, err := c.Depth(); err != nil {
		return fmt.Errorf("study.default_depth: %w", err)
	}

	validBackend := false
	for _, b := range ValidHistoryBackends {
		if c.History.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid history backend: %s (valid: %v)", c.History.Backend, ValidHistoryBackends)
	}
	if c.History.Backend == history.BackendRedis && c.History.RedisAddr == "" {
		return fmt.Errorf("history backend redis needs redis_addr (or REDIS_ADDR)")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}

	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be at least 1")
	}

	if c.Artifact.Enabled && (c.Artifact.Endpoint == "" || c.Artifact.Bucket == "") {
		return fmt.Errorf("artifact publishing needs endpoint and bucket")
	}

	return nil
}

// RequireAPIKey reports a missing key.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("API key not configured (set GEMINI_API_KEY, API_KEY or GOOGLE_API_KEY)")
	}
	return nil
}

// Translation returns the configured default translation.
func (c *Config) Translation() (study.Translation, error) {
	if c.Study.DefaultTranslation == "" {
		return study.DefaultTranslation, nil
	}
	return study.ParseTranslation(c.Study.DefaultTranslation)
}

// Depth returns the configured default depth.
func (c *Config) Depth() (study.Depth, error) {
	if c.Study.DefaultDepth == "" {
		return study.DefaultDepth, nil
	}
	return study.ParseDepth(c.Study.DefaultDepth)
}

// HistoryOptions maps the history section onto history.Options.
func (c *Config) HistoryOptions() history.Options {
	return history.Options{
		Backend:       c.History.Backend,
		Path:          c.History.Path,
		RedisAddr:     c.History.RedisAddr,
		RedisPassword: c.History.RedisPassword,
	}
}

// GetRequestTimeout returns the per-request HTTP timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDuration(c.Server.RequestTimeout, 180*time.Second)
}

// GetLinkExpiry returns how long published links stay valid.
func (c *Config) GetLinkExpiry() time.Duration {
	return parseDuration(c.Artifact.LinkExpiry, 24*time.Hour)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
