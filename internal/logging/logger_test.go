package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("production", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = New("development", "loud")
	assert.Error(t, err)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "rid-1")
	assert.Equal(t, "rid-1", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestLoggerAttachesRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetBase(zap.New(core))
	t.Cleanup(func() { SetBase(nil) })

	ctx := WithRequestID(context.Background(), "abc123")
	NewLogger(ctx).LogError("generate", errors.New("boom"))
	NewLogger(context.Background()).LogInfof("restore", "loaded %d projects", 3)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "abc123", first["request_id"])
	assert.Equal(t, "generate", first["operation"])
	assert.Equal(t, "boom", first["error"])

	assert.Equal(t, "loaded 3 projects", entries[1].Message)
	assert.Equal(t, "unknown", entries[1].ContextMap()["request_id"])
}
