// Package config loads the single startup configuration struct named in
// Section 6 ("A single struct loaded at startup... Environment-derived
// values enter via this struct only"), grounded on the teacher's env-var
// loader (internal/config/config.go) and its godotenv + getEnv helper style.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/talgya/agentforge/internal/clock"
)

// Config holds the startup tunables: tick rate, command queue capacity,
// max commands per tick, respawn policy, spatial cell size, log level,
// storage/redis/HTTP/admin settings, world generation settings, and the
// clock.Config carrying batch thresholds, needs decay rates/thresholds,
// zone bonuses, economy intervals and social thresholds. It has no max
// concurrent paths field (the movement pool sizes itself from the CPU
// count) and no economy price table (base prices come from
// worldstate.DefaultBasePrices).
type Config struct {
	TickRateHz         int
	CommandQueueCap    int
	MaxCommandsPerTick int
	RespawnEnabled     bool
	SpatialCellSize    float64

	LogLevel string

	DatabasePath string
	RedisAddr    string
	HTTPPort     int
	AdminKey     string

	WorldSeed      int64
	WorldWidth     int
	WorldHeight    int
	WorldZoneCount int

	Clock clock.Config
}

// Load reads configuration from the environment, applying the
// specification's defaults for anything unset (mirrors the teacher's
// godotenv.Load + getEnv pattern).
func Load() (*Config, error) {
	_ = godotenv.Load()

	clockCfg := clock.DefaultConfig()
	clockCfg.TickRateHz = getEnvAsInt("WORLDSIM_TICK_RATE_HZ", clockCfg.TickRateHz)
	clockCfg.MaxCommandsPerTick = getEnvAsInt("WORLDSIM_MAX_COMMANDS_PER_TICK", clockCfg.MaxCommandsPerTick)
	clockCfg.RespawnEnabled = getEnvAsBool("WORLDSIM_RESPAWN_ENABLED", clockCfg.RespawnEnabled)
	clockCfg.SpatialCellSize = getEnvAsFloat("WORLDSIM_SPATIAL_CELL_SIZE", clockCfg.SpatialCellSize)
	clockCfg.DtSeconds = 1.0 / float64(clockCfg.TickRateHz)

	clockCfg.Needs.BatchThreshold = getEnvAsInt("WORLDSIM_NEEDS_BATCH_THRESHOLD", clockCfg.Needs.BatchThreshold)
	clockCfg.Needs.CriticalThreshold = getEnvAsFloat("WORLDSIM_NEEDS_CRITICAL_THRESHOLD", clockCfg.Needs.CriticalThreshold)
	clockCfg.Needs.RespawnDelaySec = getEnvAsInt("WORLDSIM_RESPAWN_DELAY_SEC", clockCfg.Needs.RespawnDelaySec)

	clockCfg.Economy.SalaryIntervalTicks = getEnvAsInt("WORLDSIM_SALARY_INTERVAL_TICKS", clockCfg.Economy.SalaryIntervalTicks)
	clockCfg.Economy.AutoTradeIntervalTicks = getEnvAsInt("WORLDSIM_AUTOTRADE_INTERVAL_TICKS", clockCfg.Economy.AutoTradeIntervalTicks)

	clockCfg.Social.GroupThreshold = getEnvAsFloat("WORLDSIM_SOCIAL_GROUP_THRESHOLD", clockCfg.Social.GroupThreshold)

	cfg := &Config{
		TickRateHz:         clockCfg.TickRateHz,
		CommandQueueCap:    getEnvAsInt("WORLDSIM_COMMAND_QUEUE_CAP", 1024),
		MaxCommandsPerTick: clockCfg.MaxCommandsPerTick,
		RespawnEnabled:     clockCfg.RespawnEnabled,
		SpatialCellSize:    clockCfg.SpatialCellSize,
		LogLevel:           getEnv("WORLDSIM_LOG_LEVEL", "info"),
		DatabasePath:       getEnv("WORLDSIM_DB_PATH", "./data/worldsim.db"),
		RedisAddr:          getEnv("WORLDSIM_REDIS_ADDR", "localhost:6379"),
		HTTPPort:           getEnvAsInt("WORLDSIM_HTTP_PORT", 8090),
		AdminKey:           getEnv("WORLDSIM_ADMIN_KEY", ""),
		WorldSeed:          getEnvAsInt64("WORLDSIM_WORLD_SEED", 42),
		WorldWidth:         getEnvAsInt("WORLDSIM_WORLD_WIDTH", 128),
		WorldHeight:        getEnvAsInt("WORLDSIM_WORLD_HEIGHT", 128),
		WorldZoneCount:     getEnvAsInt("WORLDSIM_WORLD_ZONE_COUNT", 3),
		Clock:              clockCfg,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
