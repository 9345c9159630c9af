package fx

import (
	"context"

	"Finary/internal/cache"
	"Finary/internal/domain/budget"
	"Finary/internal/domain/category"
	"Finary/internal/domain/goal"
	"Finary/internal/domain/transaction"
	"Finary/internal/routes"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
	),
)

func newHandler(
	db *gorm.DB,
	c cache.Client,
	transactionSvc *transaction.Service,
	budgetSvc *budget.Service,
	categorySvc *category.Service,
	goalSvc *goal.Service,
) *routes.Handler {
	checks := []routes.HealthCheck{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if c != nil {
		checks = append(checks, routes.HealthCheck{Name: "cache", Check: c.Ping})
	}

	return &routes.Handler{
		TransactionService: transactionSvc,
		BudgetService:      budgetSvc,
		CategoryService:    categorySvc,
		GoalService:        goalSvc,
		HealthChecks:       checks,
	}
}
