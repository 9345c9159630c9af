package budget

import (
	"context"
	"time"

	"Finary/internal/cache"
	"Finary/internal/domain/category"
	"Finary/internal/domain/shared"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
)

var (
	ErrAlreadyExists  = appErrors.Conflict("BUDGET_ALREADY_EXISTS", "Budget already exists for this category & period")
	ErrDuplicateOnSet = appErrors.Conflict("BUDGET_ALREADY_EXISTS", "Budget with this category & period already exists")
	ErrNotFound       = appErrors.ErrBudgetNotFound
)

type CategoryFinder interface {
	FindOne(ctx context.Context, categoryID, userID ulid.ULID) (*category.Category, error)
}

type Service struct {
	Repository Repository
	Categories CategoryFinder
	Cache      cache.Client
	TTL        time.Duration
}

func NewService(repo Repository, categories CategoryFinder, c cache.Client, ttl time.Duration) *Service {
	return &Service{Repository: repo, Categories: categories, Cache: c, TTL: ttl}
}

func (s *Service) Create(ctx context.Context, userID ulid.ULID, in CreateInput) (*Budget, error) {
	if !in.Allocated.IsPositive() {
		return nil, appErrors.NewValidationError("allocated", "allocated must be greater than zero")
	}
	if !in.Period.IsValid() {
		return nil, appErrors.NewValidationError("period", "period must be one of WEEKLY, MONTHLY, YEARLY")
	}

	cat, err := s.Categories.FindOne(ctx, in.CategoryId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSlotFree(ctx, userID, in.CategoryId, in.Period, nil, ErrAlreadyExists); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &Budget{
		Id:           pkg.GenerateULIDObject(),
		UserId:       userID,
		CategoryId:   in.CategoryId,
		CategoryName: cat.Name,
		Allocated:    in.Allocated,
		Period:       in.Period,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repository.Create(ctx, b); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, appErrors.Expose("budget.create", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.LedgerKeys(userID)...)
	return b, nil
}

func (s *Service) Update(ctx context.Context, budgetID, userID ulid.ULID, in UpdateInput) (*Budget, error) {
	current, err := s.FindOne(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	if in.Allocated != nil {
		if !in.Allocated.IsPositive() {
			return nil, appErrors.NewValidationError("allocated", "allocated must be greater than zero")
		}
		current.Allocated = *in.Allocated
	}
	if in.Period != nil {
		if !in.Period.IsValid() {
			return nil, appErrors.NewValidationError("period", "period must be one of WEEKLY, MONTHLY, YEARLY")
		}
		current.Period = *in.Period
	}
	if in.CategoryId != nil && *in.CategoryId != current.CategoryId {
		cat, err := s.Categories.FindOne(ctx, *in.CategoryId, userID)
		if err != nil {
			return nil, err
		}
		current.CategoryId = cat.Id
		current.CategoryName = cat.Name
	}

	if err := s.ensureSlotFree(ctx, userID, current.CategoryId, current.Period, &current.Id, ErrDuplicateOnSet); err != nil {
		return nil, err
	}

	current.UpdatedAt = time.Now().UTC()
	if err := s.Repository.Update(ctx, current); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return nil, ErrDuplicateOnSet
		}
		if shared.IsNotFound(err) {
			return nil, appErrors.ErrBudgetNotFound
		}
		return nil, appErrors.Expose("budget.update", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.LedgerKeys(userID)...)
	return current, nil
}

// Remove deletes the budget only. Transactions in its category are kept and
// a budget created later for the same category starts from zero.
func (s *Service) Remove(ctx context.Context, budgetID, userID ulid.ULID) error {
	if _, err := s.FindOne(ctx, budgetID, userID); err != nil {
		return err
	}

	if err := s.Repository.Delete(ctx, budgetID, userID); err != nil {
		if shared.IsNotFound(err) {
			return appErrors.ErrBudgetNotFound
		}
		return appErrors.Expose("budget.remove", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.LedgerKeys(userID)...)
	return nil
}

func (s *Service) FindOne(ctx context.Context, budgetID, userID ulid.ULID) (*Budget, error) {
	b, err := s.Repository.GetByID(ctx, budgetID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, appErrors.Expose("budget.find_one", err)
	}
	return b, nil
}

func (s *Service) FindAll(ctx context.Context, userID ulid.ULID) ([]*Budget, error) {
	budgets, err := cache.GetOrCompute(ctx, s.Cache, cache.BudgetsKey(userID), s.TTL,
		func(ctx context.Context) ([]*Budget, error) {
			return s.Repository.ListByUser(ctx, userID)
		})
	if err != nil {
		return nil, appErrors.Expose("budget.find_all", err)
	}
	return budgets, nil
}

func (s *Service) Summary(ctx context.Context, userID ulid.ULID) (*Summary, error) {
	summary, err := s.Repository.GetSummary(ctx, userID)
	if err != nil {
		return nil, appErrors.Expose("budget.summary", err)
	}
	return summary, nil
}

func (s *Service) ensureSlotFree(ctx context.Context, userID, categoryID ulid.ULID, period Period, self *ulid.ULID, conflict *appErrors.AppError) error {
	found, err := s.Repository.FindByKey(ctx, userID, categoryID, period)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return appErrors.Expose("budget.check_slot", err)
	}
	if self != nil && found.Id == *self {
		return nil
	}
	return conflict
}
