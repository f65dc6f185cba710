package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"furrylink/internal/core/config"
)

func TestBuild_JSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, done := Build(Options{Level: "warn", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Info("dropped")
	l.Warn("kept", zap.String("k", "v"))
	done()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "ts")
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, done := Build(Options{Level: "loud", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Debug("nope")
	l.Info("yes")
	done()
	assert.NotContains(t, buf.String(), "nope")
	assert.Contains(t, buf.String(), "yes")
}

func TestBuild_RotateFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, done := Build(Options{
		Level: "info", JSON: true, Out: zapcore.AddSync(&buf),
		Rotate: config.LogFile{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("to-file")
	done()
	assert.FileExists(t, file)
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, done := Build(Options{Level: "debug", JSON: true, Out: zapcore.AddSync(&buf)})
	w := ToWriter(l, zapcore.InfoLevel)
	n, err := w.Write([]byte("hello\n"))
	done()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
