package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")

	ctx := WithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestInit_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "loud", "json")

	Ctx(context.Background()).Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Ctx(context.Background()).Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
