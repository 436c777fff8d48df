package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", &buf)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Warn("careful")
	l.Error("broken %s", "pipe")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] shown 2")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "[ERROR] broken pipe")
}

func TestErrorLevelSuppressesWarn(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("error", &buf)

	l.Info("a")
	l.Warn("b")
	l.Error("c")

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}
