package report

import (
	"context"

	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Source answers the five reads a report page needs. Aggregate expects every
// call to observe the same snapshot, so callers hand it a source bound to one
// read-only transaction.
type Source[T any] interface {
	List(ctx context.Context, userID ulid.ULID, filters Filters, pagination *pkg.PaginationParams) ([]T, error)
	Count(ctx context.Context, userID ulid.ULID, filters Filters) (int64, error)
	SumByType(ctx context.Context, userID ulid.ULID, filters Filters, typ string) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, userID ulid.ULID, filters Filters) ([]CategoryTotal, error)
}

func Aggregate[T any](ctx context.Context, src Source[T], userID ulid.ULID, filters Filters, pagination *pkg.PaginationParams) (*Page[T], error) {
	pagination = pkg.NormalizePagination(pagination)

	rows, err := src.List(ctx, userID, filters, pagination)
	if err != nil {
		return nil, err
	}

	total, err := src.Count(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	income, err := src.SumByType(ctx, userID, filters, incomeType)
	if err != nil {
		return nil, err
	}

	expense, err := src.SumByType(ctx, userID, filters, expenseType)
	if err != nil {
		return nil, err
	}

	byCategory, err := src.SumByCategory(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []T{}
	}

	return &Page[T]{
		CurrentPage: pagination.Page,
		TotalPages:  pkg.TotalPages(total, pagination.Limit),
		TotalItems:  total,
		Data:        rows,
		Report:      Build(income, expense, byCategory),
	}, nil
}
