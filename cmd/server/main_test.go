package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skillchain/internal/platform/config"
)

func TestShutdownTimeout(t *testing.T) {
	t.Run("outlasts the ledger confirmation wait", func(t *testing.T) {
		cfg := config.Config{TxConfirmTimeout: 2 * time.Minute}

		assert.Greater(t, confirmingDeadline(cfg), cfg.TxConfirmTimeout)
		assert.GreaterOrEqual(t, shutdownTimeout(cfg), confirmingDeadline(cfg))
	})

	t.Run("follows a longer configured confirmation timeout", func(t *testing.T) {
		cfg := config.Config{TxConfirmTimeout: 10 * time.Minute}

		assert.Equal(t, 10*time.Minute+confirmHeadroom, shutdownTimeout(cfg))
	})

	t.Run("never drops below the minimum", func(t *testing.T) {
		cfg := config.Config{TxConfirmTimeout: time.Second}

		assert.Equal(t, max(time.Second+confirmHeadroom, minShutdown), shutdownTimeout(cfg))
	})
}
