package capture

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	o := Options{}
	assert.ErrorContains(t, o.normalize(), "SVGPath")

	o = Options{SVGPath: "frame.svg"}
	assert.ErrorContains(t, o.normalize(), "OutputPath")

	o = Options{SVGPath: "frame.svg", OutputPath: "frame.png"}
	require.NoError(t, o.normalize())
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, 30*time.Second, o.Timeout)
}

func TestFileURL(t *testing.T) {
	dir := t.TempDir()
	u, err := fileURL(filepath.Join(dir, "frame.svg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"), u)
	assert.True(t, strings.HasSuffix(u, "/frame.svg"), u)
}

func TestSVGToPNGMissingFile(t *testing.T) {
	err := SVGToPNG(context.Background(), Options{
		SVGPath:    filepath.Join(t.TempDir(), "missing.svg"),
		OutputPath: filepath.Join(t.TempDir(), "out.png"),
	})
	assert.ErrorContains(t, err, "capture:")
}
