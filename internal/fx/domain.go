package fx

import (
	"Finary/config"
	"Finary/internal/cache"
	"Finary/internal/domain/audit"
	"Finary/internal/domain/budget"
	"Finary/internal/domain/category"
	"Finary/internal/domain/goal"
	"Finary/internal/domain/transaction"
	"Finary/internal/infrastructure"

	"go.uber.org/fx"
)

var DomainModule = fx.Module("domain",
	fx.Provide(
		newCategoryService,
		newBudgetService,
		newGoalService,
		newTransactionService,
		newAuditService,
	),
)

func newCategoryService(repo *infrastructure.CategoryRepository, c cache.Client, cfg *config.Config) *category.Service {
	return category.NewService(repo, c, cfg.Cache.CategoriesTTL)
}

func newBudgetService(repo *infrastructure.BudgetRepository, categories *category.Service, c cache.Client, cfg *config.Config) *budget.Service {
	return budget.NewService(repo, categories, c, cfg.Cache.BudgetsTTL)
}

func newGoalService(repo *infrastructure.GoalRepository, categories *category.Service, c cache.Client, cfg *config.Config) *goal.Service {
	return goal.NewService(repo, categories, c, cfg.Cache.GoalsTTL)
}

func newTransactionService(uow *infrastructure.UnitOfWork, c cache.Client) *transaction.Service {
	return transaction.NewService(uow, c)
}

func newAuditService(store *infrastructure.AuditStore) *audit.Service {
	return audit.NewService(store)
}
