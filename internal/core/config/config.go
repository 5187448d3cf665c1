// Package config handles configuration loading and validation for redline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	GitPath string    `yaml:"git_path"`
	Exclude []string  `yaml:"exclude"` // doublestar globs, matched against repo-relative paths
	TUI     TUIConfig `yaml:"tui"`
	DataDir string    `yaml:"-"` // set by caller, not from config file
}

// TUIConfig holds presentation and navigation tunables.
type TUIConfig struct {
	// CommentLineWidth is the wrap width for comment text inside comment boxes.
	CommentLineWidth int `yaml:"comment_line_width"`
	// HalfPage is the number of lines moved by ctrl+d / ctrl+u.
	HalfPage int `yaml:"half_page"`
	// FullPage is the number of lines moved by ctrl+f / ctrl+b.
	FullPage int `yaml:"full_page"`
	// HScrollStep is the number of columns moved by h / l.
	HScrollStep int `yaml:"hscroll_step"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GitPath: "git",
		Exclude: []string{},
		TUI: TUIConfig{
			CommentLineWidth: 80,
			HalfPage:         15,
			FullPage:         30,
			HScrollStep:      4,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TUI.CommentLineWidth == 0 {
		c.TUI.CommentLineWidth = defaults.TUI.CommentLineWidth
	}
	if c.TUI.HalfPage == 0 {
		c.TUI.HalfPage = defaults.TUI.HalfPage
	}
	if c.TUI.FullPage == 0 {
		c.TUI.FullPage = defaults.TUI.FullPage
	}
	if c.TUI.HScrollStep == 0 {
		c.TUI.HScrollStep = defaults.TUI.HScrollStep
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.TUI.CommentLineWidth < 20 {
		return fmt.Errorf("tui.comment_line_width must be at least 20")
	}

	if c.TUI.HalfPage < 1 || c.TUI.FullPage < 1 {
		return fmt.Errorf("tui page sizes must be at least 1")
	}

	if c.TUI.HScrollStep < 1 {
		return fmt.Errorf("tui.hscroll_step must be at least 1")
	}

	return nil
}

// SessionsDir returns the path where review sessions are stored.
func (c *Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}
