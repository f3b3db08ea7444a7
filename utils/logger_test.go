package utils

import (
	"context"
	"github.com/stretchr/testify/assert"
	"log/slog"
	"testing"
)

func TestNew_LevelsPerEnv(t *testing.T) {
	ctx := context.Background()

	assert.True(t, New(EnvDev).Enabled(ctx, slog.LevelDebug))
	assert.False(t, New(EnvProd).Enabled(ctx, slog.LevelDebug))
	assert.True(t, New(EnvProd).Enabled(ctx, slog.LevelInfo))
	assert.False(t, Discard().Enabled(ctx, slog.LevelError))
}
