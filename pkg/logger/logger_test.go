package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Configure(log.New(), &buf, "debug", "json")

	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.WithField("unit", "TRK001").Debug("selected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "selected", entry["msg"])
	assert.Equal(t, "TRK001", entry["unit"])
}

func TestConfigure_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Configure(log.New(), &buf, "chatty", "text")

	assert.Equal(t, log.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}
