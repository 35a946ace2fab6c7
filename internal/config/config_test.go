package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitness-helper/internal/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("STATE_BACKEND", "")
	t.Setenv("TURN_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, StateBackendPostgres, cfg.State.Backend)
	assert.Equal(t, 5*time.Second, cfg.State.TurnTimeout)
	assert.Equal(t, 16, cfg.State.MailboxSize)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Contains(t, cfg.DB.DSN(), "sslmode=disable")
}

func TestLoad_ReportsAllProblems(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("STATE_BACKEND", "etcd")
	t.Setenv("TURN_TIMEOUT", "soon")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "etcd")
	assert.Contains(t, err.Error(), "TURN_TIMEOUT")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, logger.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, logger.LevelInfo, parseLogLevel("nonsense"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<не установлен>", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("short"))
	assert.Equal(t, "1234...wxyz", MaskSecret("1234567890:abcdwxyz"))
}
