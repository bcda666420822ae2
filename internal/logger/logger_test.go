package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pynezz/cybermap/pkg/model"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cybermap.log")
	log, err := New(ToFile(model.LogConfig{Level: "debug", Encoding: "json"}, path))
	require.NoError(t, err)

	log.Debug("feed tick")
	_ = log.Sync()

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"msg":"feed tick"`)
}
