package budget

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, budget *Budget) error
	// Update writes category, allocation and period. Spent is left alone.
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, budgetID, userID ulid.ULID) error
	GetByID(ctx context.Context, budgetID, userID ulid.ULID) (*Budget, error)
	FindByKey(ctx context.Context, userID, categoryID ulid.ULID, period Period) (*Budget, error)
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Budget, error)
	GetSummary(ctx context.Context, userID ulid.ULID) (*Summary, error)
}
