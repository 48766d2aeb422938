package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.yaml")
	content := `
layout:
  orientation: vertical
  spacing_per_event: 50
labels:
  step: 20
sides:
  field: country
  assign:
    Togo: after
    Benin: before
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Vertical, cfg.Layout.Orientation)
	assert.Equal(t, 20.0, cfg.Labels.Step)
	assert.Equal(t, 40.0, cfg.Labels.BaseDistance, "unset keys keep defaults")
	assert.Equal(t, map[string]string{"Togo": After, "Benin": Before}, cfg.Sides.Assign)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad orientation", "layout:\n  orientation: diagonal\n"},
		{"bad strategy", "labels:\n  strategy: random\n"},
		{"bad side", "sides:\n  assign:\n    Togo: middle\n"},
		{"zero step", "labels:\n  step: 0\n"},
		{"zoom extent", "scale:\n  min_zoom: 4\n  max_zoom: 2\n"},
		{"half domain", "scale:\n  domain_start: 1960-01-01\n"},
		{"not yaml", "layout: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Sides.Assign = map[string]string{"Togo": After}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDomain(t *testing.T) {
	cfg := Default()
	_, _, ok, err := cfg.Domain()
	require.NoError(t, err)
	assert.False(t, ok)

	cfg.Scale.DomainStart = "1960-01-01"
	cfg.Scale.DomainEnd = "2010-01-01"
	start, end, ok, err := cfg.Domain()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), end)

	cfg.Scale.DomainEnd = "1950-01-01"
	_, _, _, err = cfg.Domain()
	assert.Error(t, err)
}

func TestAxisGeometry(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1000.0, cfg.AxisLength(3))
	assert.Equal(t, 400.0, cfg.AxisPosition())
	assert.Equal(t, 100.0, cfg.AxisStart())

	cfg.Layout.Orientation = Vertical
	cfg.Layout.SpacingPerEvent = 50
	assert.Equal(t, 150.0, cfg.AxisLength(3))
	assert.Equal(t, 600.0, cfg.AxisPosition())
	assert.Equal(t, 50.0, cfg.AxisStart())

	w, h := cfg.CanvasSize(3)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 250, h)

	cfg.Layout.Orientation = Horizontal
	cfg.Layout.SpacingPerEvent = 100
	w, h = cfg.CanvasSize(30)
	assert.Equal(t, 3200, w, "horizontal canvas grows by the left and right margins")
	assert.Equal(t, cfg.Layout.Height, h)
}
