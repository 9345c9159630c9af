package category

import (
	"context"
	"strings"
	"time"

	"Finary/internal/cache"
	"Finary/internal/domain/shared"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNameTaken     = appErrors.Conflict("CATEGORY_NAME_TAKEN", "Category name already exists for this user")
	ErrTypeImmutable = appErrors.BadRequest("CATEGORY_TYPE_IMMUTABLE", "Category type cannot be changed")
)

type Service struct {
	Repository Repository
	Cache      cache.Client
	TTL        time.Duration
}

func NewService(repo Repository, c cache.Client, ttl time.Duration) *Service {
	return &Service{Repository: repo, Cache: c, TTL: ttl}
}

func (s *Service) Create(ctx context.Context, userID ulid.ULID, in CreateInput) (*Category, error) {
	name := shared.NormalizeName(in.Name)
	if name == "" {
		return nil, appErrors.NewValidationError("name", "name is required")
	}

	typ := in.Type
	if typ == "" {
		typ = TypeExpense
	}
	if !typ.IsValid() {
		return nil, appErrors.NewValidationError("type", "type must be one of expense, income, budget, goal")
	}

	if err := s.ensureNameAvailable(ctx, name, userID, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &Category{
		Id:          pkg.GenerateULIDObject(),
		UserId:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repository.Create(ctx, category); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return nil, ErrNameTaken
		}
		return nil, appErrors.Expose("category.create", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.CategoriesKey(userID))
	return category, nil
}

func (s *Service) Update(ctx context.Context, categoryID, userID ulid.ULID, in UpdateInput) (*Category, error) {
	existing, err := s.FindOne(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	if in.Type != nil && *in.Type != existing.Type {
		return nil, ErrTypeImmutable
	}

	renamed := false
	if in.Name != nil {
		name := shared.NormalizeName(*in.Name)
		if name == "" {
			return nil, appErrors.NewValidationError("name", "name is required")
		}
		if name != existing.Name {
			if err := s.ensureNameAvailable(ctx, name, userID, &existing.Id); err != nil {
				return nil, err
			}
			existing.Name = name
			renamed = true
		}
	}
	if in.Description != nil {
		existing.Description = strings.TrimSpace(*in.Description)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repository.Update(ctx, existing); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return nil, ErrNameTaken
		}
		if shared.IsNotFound(err) {
			return nil, appErrors.ErrCategoryNotFound
		}
		return nil, appErrors.Expose("category.update", err)
	}

	keys := []string{cache.CategoriesKey(userID)}
	if renamed {
		// cached budgets embed the category name
		keys = append(keys, cache.BudgetsKey(userID))
	}
	cache.Invalidate(ctx, s.Cache, keys...)
	return existing, nil
}

func (s *Service) Remove(ctx context.Context, categoryID, userID ulid.ULID) error {
	if _, err := s.FindOne(ctx, categoryID, userID); err != nil {
		return err
	}

	if err := s.Repository.Delete(ctx, categoryID, userID); err != nil {
		if shared.IsNotFound(err) {
			return appErrors.ErrCategoryNotFound
		}
		return appErrors.Expose("category.remove", err)
	}

	cache.Invalidate(ctx, s.Cache, cache.CategoriesKey(userID), cache.BudgetsKey(userID))
	return nil
}

func (s *Service) FindOne(ctx context.Context, categoryID, userID ulid.ULID) (*Category, error) {
	category, err := s.Repository.GetByID(ctx, categoryID, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, appErrors.ErrCategoryNotFound
		}
		return nil, appErrors.Expose("category.find_one", err)
	}
	return category, nil
}

func (s *Service) FindAll(ctx context.Context, userID ulid.ULID) ([]*Category, error) {
	categories, err := cache.GetOrCompute(ctx, s.Cache, cache.CategoriesKey(userID), s.TTL,
		func(ctx context.Context) ([]*Category, error) {
			return s.Repository.ListByUser(ctx, userID)
		})
	if err != nil {
		return nil, appErrors.Expose("category.find_all", err)
	}
	return categories, nil
}

func (s *Service) ensureNameAvailable(ctx context.Context, name string, userID ulid.ULID, self *ulid.ULID) error {
	found, err := s.Repository.GetByName(ctx, name, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return appErrors.Expose("category.check_name", err)
	}
	if self != nil && found.Id == *self {
		return nil
	}
	return ErrNameTaken
}
