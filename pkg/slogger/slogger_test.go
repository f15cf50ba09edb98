package slogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger(t *testing.T) {
	for _, level := range []string{LogLevelInfo, LogLevelDebug, LogLevelNone} {
		l, err := GetLogger(level)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestGetLoggerBadLevel(t *testing.T) {
	_, err := GetLogger("shouting")
	assert.Error(t, err)
}

func TestMustGetLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { MustGetLogger("shouting") })
}
