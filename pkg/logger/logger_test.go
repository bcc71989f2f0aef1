package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf)

	log.Info("quota reconciliation complete", "fixed", 3)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "quota reconciliation complete", record["msg"])
	assert.Equal(t, float64(3), record["fixed"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("warn", &buf)

	log.Debug("hidden")
	log.Info("hidden too")
	assert.Zero(t, buf.Len())

	log.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf).With("job", "reconcile")

	log.Info("started")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "reconcile", record["job"])
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("loud", &buf)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Info("visible")
	assert.Contains(t, buf.String(), "visible")
}
