package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level Level, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	fn()
	return buf.String()
}

func TestInfoWritesKeyValues(t *testing.T) {
	out := capture(t, LevelInfo, func() {
		Info("frame drawn", "frame", 3, "status", "hover")
	})
	assert.Contains(t, out, "[INFO] frame drawn")
	assert.Contains(t, out, "frame=3")
	assert.Contains(t, out, "status=hover")
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	out := capture(t, LevelInfo, func() {
		Debug("hidden")
	})
	assert.Empty(t, out)
}

func TestErrorPrependsErr(t *testing.T) {
	out := capture(t, LevelWarn, func() {
		Info("hidden")
		Error("load failed", errors.New("boom"), "path", "/tmp/x y")
	})
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[ERROR] load failed err=boom")
	assert.Contains(t, out, `path="/tmp/x y"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
