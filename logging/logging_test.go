package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, l)
	l, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, l)
	_, err = ParseLevel("chatty")
	require.Error(t, err)
}

func TestBuildLevelAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "run.log")
	o := DefaultOptions()
	o.Level = "warn"
	o.File = file
	o.Compress = false

	log, closer, err := build(o, zapcore.AddSync(&console))
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", zap.String("target", "T"))
	require.NoError(t, log.Sync())
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), `"target":"T"`)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"shown"`)
}

func TestBuildDevelopmentConsole(t *testing.T) {
	var console bytes.Buffer
	log, closer, err := build(Options{Level: "debug", Development: true}, zapcore.AddSync(&console))
	require.NoError(t, err)
	log.Debug("visible")
	require.NoError(t, closer.Close())
	assert.Contains(t, console.String(), "visible")
	assert.NotContains(t, console.String(), `"msg"`)

	_, _, err = build(Options{Level: "loud"}, zapcore.AddSync(&console))
	require.Error(t, err)
}
