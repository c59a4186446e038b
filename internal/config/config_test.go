package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/mapping"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "rgba8", cfg.DefaultFormat)
	assert.Equal(t, "none", cfg.DefaultMode)
	assert.Equal(t, mapping.DefaultDomain, cfg.Domain)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "gray16", cfg.DefaultFormat)
	assert.Equal(t, "seamless_xy", cfg.DefaultMode)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 256, cfg.Height, "omitted fields keep defaults")
	assert.Equal(t, mapping.Rect{X: 0, Y: 0, W: 4, H: 4}, cfg.Domain)
	assert.Equal(t, "catalog.db", cfg.Database)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: ~/cat.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cat.db"), cfg.Database)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "colour: red\n", "field colour not found"},
		{"negative workers", "workers: -1\n", "workers must be >= 0"},
		{"bad format", "default_format: cmyk\n", "default_format"},
		{"bad mode", "default_mode: cube\n", "default_mode"},
		{"zero width", "width: 0\n", "must be positive"},
		{"flat domain", "domain: {x: 0, y: 0, w: 0, h: 1}\n", "nonzero extent"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"not yaml", "workers: [\n", "parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
