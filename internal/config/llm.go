package config

import (
	"time"

	"exegesis/internal/generator"
)

// LLMConfig configures the Gemini model and its retry policy.
type LLMConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	Timeout     string `yaml:"timeout"`      // whole submission, retries included
	MaxAttempts int    `yaml:"max_attempts"` // first call included
	BaseDelay   string `yaml:"base_delay"`   // doubled before each further retry
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 120*time.Second)
}

// GetBaseDelay returns the delay before the first retry.
func (c *Config) GetBaseDelay() time.Duration {
	return parseDuration(c.LLM.BaseDelay, time.Second)
}

// RetryConfig maps the llm section onto the generator retry policy.
func (c *Config) RetryConfig() generator.RetryConfig {
	rc := generator.DefaultRetryConfig()
	if c.LLM.MaxAttempts > 0 {
		rc.MaxAttempts = c.LLM.MaxAttempts
	}
	rc.InitialBackoff = c.GetBaseDelay()
	return rc
}
