package impl

import (
	"io"
	"log/slog"
	"time"

	"account/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(secret string) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 4,
			TokenTTL:   30 * 24 * time.Hour,
		},
	}
	cfg.SecretKey.Token = secret

	return cfg
}
