package confs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPAddrDefault(t *testing.T) {
	t.Setenv("PORT", "")
	assert.Equal(t, "0.0.0.0:3536", HTTPAddr())
	assert.Equal(t, "3536", HTTPPort())
}

func TestHTTPAddrFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	assert.Equal(t, "0.0.0.0:8080", HTTPAddr())
	assert.Equal(t, "8080", HTTPPort())
}

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, "info", LogLevel())

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, "debug", LogLevel())
}

func TestLogPretty(t *testing.T) {
	t.Setenv("LOG_PRETTY", "")
	assert.False(t, LogPretty())

	t.Setenv("LOG_PRETTY", "1")
	assert.True(t, LogPretty())

	t.Setenv("LOG_PRETTY", "true")
	assert.True(t, LogPretty())
}
