package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Output: &buf})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, nil, "warn message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
}

func TestLogger_ComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Output: &buf})

	logger.WithComponent("sprite").With("site", "brand-a").Info(context.Background(), "assembled")

	output := buf.String()
	assert.Contains(t, output, "component=sprite")
	assert.Contains(t, output, "site=brand-a")
	assert.Contains(t, output, "assembled")
}

func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Output: &buf})

	logger.Error(context.Background(), errors.New("boom"), "failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: &buf})

	logger.Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNopLogger_Discards(t *testing.T) {
	// Must not panic and must accept all methods.
	logger := NopLogger()
	ctx := context.Background()
	logger.Debug(ctx, "x")
	logger.Info(ctx, "x")
	logger.Warn(ctx, nil, "x")
	logger.Error(ctx, errors.New("x"), "x")
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}
