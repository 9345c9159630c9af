package goal

import (
	"context"
	"time"

	"Finary/internal/cache"
	"Finary/internal/domain/category"
	"Finary/internal/domain/shared"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

var (
	ErrNameTaken      = appErrors.Conflict("GOAL_ALREADY_EXISTS", "Goal name already exists for this user")
	ErrDuplicateOnSet = appErrors.Conflict("GOAL_ALREADY_EXISTS", "Goal with this name and category already exists")
	ErrInvalidAmount  = appErrors.BadRequest("GOAL_INVALID_AMOUNT", "Amount must be a positive number")
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

func (s *Service) Create(ctx context.Context, userID ulid.ULID, in CreateInput) (*Goal, error) {
	name := shared.NormalizeName(in.Name)
	if name == "" {
		return nil, appErrors.NewValidationError("name", "name is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	cat, err := s.Categories.FindOne(ctx, in.CategoryId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, userID, in.CategoryId, name, nil, ErrNameTaken); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &Goal{
		Id:           pkg.GenerateULIDObject(),
		UserId:       userID,
		CategoryId:   in.CategoryId,
		CategoryName: cat.Name,
		Name:         name,
		Amount:       in.Amount,
		Date:         in.Date.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repository.Create(ctx, g); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return nil, ErrNameTaken
		}
		return nil, appErrors.Expose("goal.create", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.GoalsKey(userID))
	return g, nil
}

// Update merges the patch over the stored goal. The uniqueness check runs on
// the merged (category, name) pair and ignores the goal itself.
func (s *Service) Update(ctx context.Context, goalID, userID ulid.ULID, in UpdateInput) (*Goal, error) {
	existing, err := s.FindOne(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if err := validateAmount(*in.Amount); err != nil {
			return nil, err
		}
		existing.Amount = *in.Amount
	}
	if in.Name != nil {
		name := shared.NormalizeName(*in.Name)
		if name == "" {
			return nil, appErrors.NewValidationError("name", "name is required")
		}
		existing.Name = name
	}
	if in.CategoryId != nil && *in.CategoryId != existing.CategoryId {
		cat, err := s.Categories.FindOne(ctx, *in.CategoryId, userID)
		if err != nil {
			return nil, err
		}
		existing.CategoryId = cat.Id
		existing.CategoryName = cat.Name
	}
	if in.Date != nil {
		existing.Date = in.Date.UTC()
	}

	if err := s.ensureUnique(ctx, userID, existing.CategoryId, existing.Name, &existing.Id, ErrDuplicateOnSet); err != nil {
		return nil, err
	}

	existing.UpdatedAt = time.Now().UTC()
	if err := s.Repository.Update(ctx, existing); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return nil, ErrDuplicateOnSet
		}
		if shared.IsNotFound(err) {
			return nil, appErrors.ErrGoalNotFound
		}
		return nil, appErrors.Expose("goal.update", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.GoalsKey(userID))
	return existing, nil
}

func (s *Service) Remove(ctx context.Context, goalID, userID ulid.ULID) (*Goal, error) {
	existing, err := s.FindOne(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repository.Delete(ctx, goalID, userID); err != nil {
		if shared.IsNotFound(err) {
			return nil, appErrors.ErrGoalNotFound
		}
		return nil, appErrors.Expose("goal.remove", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.GoalsKey(userID))
	return existing, nil
}

func (s *Service) FindOne(ctx context.Context, goalID, userID ulid.ULID) (*Goal, error) {
	g, err := s.Repository.GetByIDAndUser(ctx, goalID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, appErrors.ErrGoalNotFound
		}
		return nil, appErrors.Expose("goal.find_one", err)
	}
	return g, nil
}

func (s *Service) FindAll(ctx context.Context, userID ulid.ULID) ([]*Goal, error) {
	goals, err := cache.GetOrCompute(ctx, s.Cache, cache.GoalsKey(userID), s.TTL,
		func(ctx context.Context) ([]*Goal, error) {
			return s.Repository.ListByUser(ctx, userID)
		})
	if err != nil {
		return nil, appErrors.Expose("goal.find_all", err)
	}
	return goals, nil
}

func (s *Service) ensureUnique(ctx context.Context, userID, categoryID ulid.ULID, name string, self *ulid.ULID, conflict *appErrors.AppError) error {
	found, err := s.Repository.FindByKey(ctx, userID, categoryID, name)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return appErrors.Expose("goal.check_unique", err)
	}
	if self != nil && found.Id == *self {
		return nil
	}
	return conflict
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
