package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		stage, level string
		want         zap.AtomicLevel
	}{
		{"prod", "", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"dev", "debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"local", "WARN", zap.NewAtomicLevelAt(zap.WarnLevel)},
	}
	for _, tt := range tests {
		l, err := New(tt.stage, tt.level)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.want.Level()))
		assert.False(t, l.Core().Enabled(tt.want.Level()-1))
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("prod", "loud")
	require.Error(t, err)
}
