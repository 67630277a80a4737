// Package persistence selects the account store implementation from configuration.
package persistence

import (
	"log/slog"

	"account/config"
	"account/internal/domain/repository"
	"account/internal/infra/persistence/memory"
	"account/internal/infra/persistence/mongo"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RepositoryParams holds dependencies for the account store, injected by Fx.
type RepositoryParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewAccountRepository builds the store named by storage.driver.
func NewAccountRepository(params RepositoryParams) (repository.AccountRepository, error) {
	cfg := params.Config

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory account store, data is lost on restart")

		return memory.NewAccountRepository(), nil

	case config.StorageDriverMongo, "":
		db, err := mongo.New(params.Lc, cfg.Mongo, params.Logger)
		if err != nil {
			return nil, err
		}

		return mongo.NewAccountRepository(db.Collection(cfg.Mongo.Collection)), nil

	default:
		return nil, errors.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}
