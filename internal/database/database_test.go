package database

import (
	"testing"

	"github.com/easy-read/core/internal/config"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Callers pass the migrate switch explicitly; pin the signatures so the
// boot path cannot drift from them.
var (
	_ func(*config.AppConfig, bool) (*gorm.DB, error) = Connect
	_ func(*config.AppConfig) error                   = EnsureSchema
)

func TestResolveLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, resolveLogLevel(&config.AppConfig{Env: "development"}))
	assert.Equal(t, logger.Warn, resolveLogLevel(&config.AppConfig{Env: "production"}))
}
