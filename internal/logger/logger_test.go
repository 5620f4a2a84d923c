package logger

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// capture enables verbose logging into a buffer and restores defaults.
func capture(t *testing.T, enabled bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(enabled)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("loaded %d records", 3)
	Info("switched to %s", "python")
	Warn("subject %s is corrupt", "ai")

	assert.Equal(t,
		"[DEBUG] loaded 3 records\n[INFO] switched to python\n[WARN] subject ai is corrupt\n",
		buf.String())
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("x")
	Info("x")
	Warn("x")
	Section("x")
	Timed("x")()

	assert.Zero(t, buf.Len())
}

func TestDebug_PercentInArgs(t *testing.T) {
	buf := capture(t, true)

	Debug("input %q", "100% sure")

	assert.Equal(t, "[DEBUG] input \"100% sure\"\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Answer")

	assert.Equal(t, "\n=== Answer ===\n", buf.String())
}

func TestTimed(t *testing.T) {
	buf := capture(t, true)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time { return clock }
	t.Cleanup(func() { now = time.Now })

	done := Timed("fit")
	clock = clock.Add(1500 * time.Microsecond)
	done()

	assert.Equal(t, "[DEBUG] fit took 1.5ms\n", buf.String())
}

func TestSetOutput_Nil(t *testing.T) {
	capture(t, true)

	SetOutput(nil)

	assert.NotPanics(t, func() { Info("discarded") })
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "LOG", Level(42).String())
}
