package config

import "exegesis/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`                     // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`                   // json, console
	File       string          `yaml:"file" json:"file,omitempty"`                       // empty = stderr
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"`           // false = warnings and errors only
	Categories map[string]bool `yaml:"categories,omitempty" json:"categories,omitempty"` // Per-category toggles
}

// Options converts the section for logging.Initialize. verbose forces
// debug mode and level the way --verbose does.
func (c *LoggingConfig) Options(verbose bool) logging.Options {
	o := logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		DebugMode:  c.DebugMode,
		Categories: c.Categories,
	}
	if verbose {
		o.Level = "debug"
		o.DebugMode = true
	}
	return o
}
