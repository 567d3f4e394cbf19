package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWhenUnset(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.TickRateHz)
	assert.Equal(t, 1024, cfg.CommandQueueCap)
	assert.True(t, cfg.RespawnEnabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(42), cfg.WorldSeed)
	assert.Equal(t, 128, cfg.WorldWidth)
	assert.Equal(t, 128, cfg.WorldHeight)
	assert.Equal(t, 3, cfg.WorldZoneCount)
}

func TestLoadReadsOverridesFromEnv(t *testing.T) {
	os.Clearenv()
	os.Setenv("WORLDSIM_TICK_RATE_HZ", "30")
	os.Setenv("WORLDSIM_RESPAWN_ENABLED", "false")
	os.Setenv("WORLDSIM_WORLD_SEED", "7")
	os.Setenv("WORLDSIM_WORLD_WIDTH", "64")
	defer os.Clearenv()

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TickRateHz)
	assert.False(t, cfg.RespawnEnabled)
	assert.Equal(t, 1.0/30.0, cfg.Clock.DtSeconds)
	assert.Equal(t, int64(7), cfg.WorldSeed)
	assert.Equal(t, 64, cfg.WorldWidth)
}
