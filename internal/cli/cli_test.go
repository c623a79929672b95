package cli

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventline/internal/source"
)

const dataset = `
eventTypes:
  - {value: a, label: Ops lane, sort: 1}
events:
  - {id: A, title: alpha, startDate: "2024-03-01", endDate: "2024-03-11", type: a}
  - {id: B, title: beta, startDate: "2024-03-03", type: a}
  - {id: C, title: gamma, startDate: "2024-03-20", type: a}
lines:
  - {dt: "2024-03-01", value: 10, type: cpu}
  - {dt: "2024-03-05", value: 30, type: cpu}
`

// writeConfig writes a dataset and a config pointing at it.
func writeConfig(t *testing.T, withDataset bool) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "log_level: error\n"
	if withDataset {
		data := filepath.Join(dir, "data.yaml")
		require.NoError(t, os.WriteFile(data, []byte(dataset), 0o600))
		cfg += "dataset: " + data + "\n"
	}
	path := filepath.Join(dir, "eventline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestVersionFlag(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunWithArgs("0.1.0-test", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)

	assert.NoError(t, err)
	assert.Equal(t, "eventline 0.1.0-test", strings.TrimSpace(buf.String()))
}

func TestSubcommandsRegistered(t *testing.T) {
	parser, _, _ := buildParser("test")
	for _, name := range []string{"render", "serve", "window", "capture"} {
		assert.NotNil(t, parser.Find(name), name)
	}
}

func TestRenderSVG(t *testing.T) {
	cfgPath := writeConfig(t, true)
	out := filepath.Join(t.TempDir(), "frame.svg")

	err := RunWithArgs("test", []string{"--config", cfgPath, "render", "--out", out, "--pointer", "150,40"})
	require.NoError(t, err)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	s := string(body)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "Ops lane")
	assert.Contains(t, s, "<polyline")
}

func TestRenderPNGWithWidth(t *testing.T) {
	cfgPath := writeConfig(t, true)
	out := filepath.Join(t.TempDir(), "nested", "frame.png")

	err := RunWithArgs("test", []string{"--config", cfgPath, "render", "--out", out, "--width", "640", "--pointer", "110,40", "--click"})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestRenderNeedsData(t *testing.T) {
	cfgPath := writeConfig(t, false)
	err := RunWithArgs("test", []string{"--config", cfgPath, "render", "--out", filepath.Join(t.TempDir(), "x.png")})
	assert.ErrorIs(t, err, source.ErrNoData)
}

func TestRenderBadPointer(t *testing.T) {
	cfgPath := writeConfig(t, true)
	err := RunWithArgs("test", []string{"--config", cfgPath, "render", "--out", filepath.Join(t.TempDir(), "x.svg"), "--pointer", "12"})
	assert.Error(t, err)
}

func TestRenderFormat(t *testing.T) {
	assert.Equal(t, "svg", (&RenderCommand{Out: "a/frame.SVG"}).format())
	assert.Equal(t, "png", (&RenderCommand{Out: "frame.png"}).format())
	assert.Equal(t, "png", (&RenderCommand{Out: "-"}).format())
	assert.Equal(t, "svg", (&RenderCommand{Out: "frame.png", Format: "svg"}).format())
}

func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint(" 12.5, 40 ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, x)
	assert.Equal(t, 40.0, y)

	for _, bad := range []string{"", "1", "a,2", "1,b"} {
		_, _, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")
	cfg, err := loadConfig(&GlobalFlags{Config: path, LogLevel: "error"})
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Timezone)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
