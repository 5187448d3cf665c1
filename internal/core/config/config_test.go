package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "/tmp/redline-data")
	require.NoError(t, err)

	assert.Equal(t, "git", cfg.GitPath)
	assert.Equal(t, "/tmp/redline-data", cfg.DataDir)
	assert.Equal(t, 80, cfg.TUI.CommentLineWidth)
	assert.Equal(t, 15, cfg.TUI.HalfPage)
	assert.Equal(t, 30, cfg.TUI.FullPage)
	assert.Equal(t, 4, cfg.TUI.HScrollStep)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"), "/tmp/redline-data")
	require.NoError(t, err)
	assert.Equal(t, "git", cfg.GitPath)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
git_path: /usr/local/bin/git
exclude:
  - "vendor/**"
  - "*.lock"
tui:
  half_page: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, "/tmp/redline-data")
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/git", cfg.GitPath)
	assert.Equal(t, []string{"vendor/**", "*.lock"}, cfg.Exclude)
	assert.Equal(t, 20, cfg.TUI.HalfPage)
	// unset values still get defaults
	assert.Equal(t, 30, cfg.TUI.FullPage)
	assert.Equal(t, 80, cfg.TUI.CommentLineWidth)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("git_path: [nope"), 0o644))

	_, err := Load(path, "/tmp/redline-data")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}},
		{name: "empty git path", mutate: func(c *Config) { c.GitPath = "" }, wantErr: true},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "tiny comment width", mutate: func(c *Config) { c.TUI.CommentLineWidth = 5 }, wantErr: true},
		{name: "zero half page", mutate: func(c *Config) { c.TUI.HalfPage = 0 }, wantErr: true},
		{name: "negative hscroll", mutate: func(c *Config) { c.TUI.HScrollStep = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = "/tmp/redline-data"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDeep_BadExcludePattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Exclude = []string{"[unclosed"}

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude[0]")
}

func TestSessionsDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "sessions"), cfg.SessionsDir())
}
