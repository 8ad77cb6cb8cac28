package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestNewGologLogger(t *testing.T) {
	logger := NewGologLogger(golog.New())

	assert.NotNil(t, logger)
	assert.Equal(t, LevelInfo, logger.Level())
}

func TestGologLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)

	logger := NewGologLogger(glogger)
	logger.SetLevel(LevelError)

	logger.Info("hidden %d", 1)
	assert.NotContains(t, buf.String(), "hidden")

	logger.Error("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestGologLogger_SetLevel(t *testing.T) {
	logger := NewGologLogger(golog.New())

	for _, level := range []Level{LevelDebug, LevelWarn, LevelError, LevelNone, LevelInfo} {
		logger.SetLevel(level)
		assert.Equal(t, level, logger.Level())
	}
}
