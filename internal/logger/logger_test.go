package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")

	Info("application submitted", "application_id", 4)
	Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "application submitted", entry["msg"])
	assert.Equal(t, float64(4), entry["application_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestDatabaseResult_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "debug", "text")

	DatabaseResult("INSERT", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "boom")
}

func TestRequest_ServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "text")

	Request("GET", "dashboard", "/api/v1/application", 500, 3*time.Millisecond)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "route=dashboard")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
