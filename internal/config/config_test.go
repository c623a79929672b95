package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChart(t *testing.T) {
	c := DefaultChart()

	assert.Equal(t, Padding{Top: 24, Right: 24, Bottom: 48, Left: 0}, c.Padding)
	assert.Equal(t, 15.0, c.Axis.Height)
	assert.Equal(t, 10.0, c.Scale.Space)
	assert.Equal(t, "startDate", c.FieldNames.EventStart)
	assert.Equal(t, "dt", c.FieldNames.LineX)
	assert.Equal(t, 40.0, c.EventTypeStyle.Height)
	assert.Equal(t, 60.0, c.EventStyle.MinWidth)
	assert.Equal(t, 6, c.LineStyle.YScaleCount)
	assert.Equal(t, -100.0, c.Pan.Min)
	assert.Equal(t, 200.0, c.Pan.RightInset)
}

func TestParseMergesChartOverridesOverDefaults(t *testing.T) {
	yamlContent := `
listen: "0.0.0.0:9000"
chart:
  axis:
    color: "#000"
  scale:
    space: 20
  fieldNames:
    eventStartField: begin
  eventStyle:
    minWidth: 40
`
	cfg, err := Parse([]byte(yamlContent))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "#000", cfg.Chart.Axis.Color)
	assert.Equal(t, 20.0, cfg.Chart.Scale.Space)
	assert.Equal(t, "begin", cfg.Chart.FieldNames.EventStart)
	assert.Equal(t, 40.0, cfg.Chart.EventStyle.MinWidth)

	// Untouched keys in the same sections keep their defaults.
	assert.Equal(t, 15.0, cfg.Chart.Axis.Height)
	assert.Equal(t, 15.0, cfg.Chart.Scale.FirstHeight)
	assert.Equal(t, "endDate", cfg.Chart.FieldNames.EventEnd)
	assert.Equal(t, 30.0, cfg.Chart.EventStyle.Height)
	assert.Equal(t, 900.0, cfg.Chart.Width)
}

func TestNormalizeRepairsDegenerateValues(t *testing.T) {
	c := Chart{}
	c.Normalize()

	d := DefaultChart()
	assert.Equal(t, d.Scale.Space, c.Scale.Space)
	assert.Equal(t, d.LineStyle.YScaleCount, c.LineStyle.YScaleCount)
	assert.Equal(t, d.FieldNames, c.FieldNames)
	assert.Equal(t, d.EventStyle.PrimaryColor, c.EventStyle.PrimaryColor)
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Listen, cfg.Listen)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Chart.Scale, again.Chart.Scale)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.ICS = append(cfg.ICS, ICSConfig{URL: "https://example.com/a.ics", ID: "work", Name: "Work"})
	cfg.Chart.LineTitle = "Load"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.ICS, 1)
	assert.Equal(t, "work", loaded.ICS[0].ID)
	assert.Equal(t, "Load", loaded.Chart.LineTitle)
}
