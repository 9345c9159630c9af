package fx

import (
	"context"

	"Finary/config"
	"Finary/internal/cache"
	"Finary/internal/infrastructure"
	"Finary/internal/logger"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newCacheClient,
		newUnitOfWork,
		newAuditStore,
		newCategoryRepository,
		newBudgetRepository,
		newGoalRepository,
	),
)

func newDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infrastructure.NewDb(cfg)
	if err != nil {
		return nil, err
	}
	if err := infrastructure.Migrate(db); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

// newCacheClient returns a nil Client when Redis is disabled; every read then
// goes straight to the store.
func newCacheClient(lc fx.Lifecycle, cfg *config.Config) (cache.Client, error) {
	if !cfg.Redis.Enabled {
		logger.Info().Msg("redis disabled, cache bypassed")
		return nil, nil
	}

	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newUnitOfWork(db *gorm.DB) *infrastructure.UnitOfWork {
	return infrastructure.NewUnitOfWork(db)
}

func newAuditStore(uow *infrastructure.UnitOfWork) *infrastructure.AuditStore {
	return infrastructure.NewAuditStore(uow)
}

func newCategoryRepository(db *gorm.DB) *infrastructure.CategoryRepository {
	return &infrastructure.CategoryRepository{DB: db}
}

func newBudgetRepository(db *gorm.DB) *infrastructure.BudgetRepository {
	return &infrastructure.BudgetRepository{DB: db}
}

func newGoalRepository(db *gorm.DB) *infrastructure.GoalRepository {
	return &infrastructure.GoalRepository{DB: db}
}
