package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Finary/internal/cache"
	"Finary/internal/domain/report"
	"Finary/internal/domain/shared"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

var ErrNoBudgetForCategory = appErrors.NotFound("BUDGET_NOT_FOUND", "Budget not found for this category")

func errNoBudgetFor(categoryID ulid.ULID) *appErrors.AppError {
	return ErrNoBudgetForCategory.WithMessage(fmt.Sprintf("Budget not found for category %s", categoryID))
}

// Service keeps every budget's spent equal to the sum of the user's EXPENSE
// transactions in that budget's category. Each mutation runs as one unit of
// work; caches are invalidated only after it commits.
type Service struct {
	UnitOfWork UnitOfWork
	Cache      cache.Client
}

func NewService(uow UnitOfWork, c cache.Client) *Service {
	return &Service{UnitOfWork: uow, Cache: c}
}

func (s *Service) Create(ctx context.Context, userID ulid.ULID, in CreateInput) (*Transaction, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, invalidType()
	}

	now := time.Now().UTC()
	t := &Transaction{
		Id:          pkg.GenerateULIDObject(),
		UserId:      userID,
		CategoryId:  in.CategoryId,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Date.IsZero() {
		t.Date = now
	}

	err := s.UnitOfWork.Do(ctx, func(tx Tx) error {
		// INCOME needs a budget too; the lookup is unconditional.
		b, err := tx.Budgets().FindByCategory(ctx, userID, t.CategoryId)
		if err != nil {
			if shared.IsNotFound(err) {
				return ErrNoBudgetForCategory
			}
			return err
		}

		if err := tx.Transactions().Create(ctx, t); err != nil {
			return err
		}

		if t.Type == Expense {
			return tx.Budgets().AdjustSpent(ctx, b.Id, t.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Expose("transaction.create", err)
	}

	s.invalidate(ctx, userID)
	return t, nil
}

func (s *Service) Update(ctx context.Context, transactionID, userID ulid.ULID, patch Patch) (*Transaction, error) {
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
	}
	if patch.Type != nil && !patch.Type.IsValid() {
		return nil, invalidType()
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
	}

	var updated *Transaction
	err := s.UnitOfWork.Do(ctx, func(tx Tx) error {
		stored, err := lockOwned(ctx, tx, transactionID, userID)
		if err != nil {
			return err
		}

		if stored.Type == Expense {
			if err := revertExpense(ctx, tx, stored); err != nil {
				return err
			}
		}

		next := *stored
		patch.apply(&next)
		next.UpdatedAt = time.Now().UTC()

		if err := tx.Transactions().Update(ctx, &next); err != nil {
			return notFoundAs(err, appErrors.ErrTransactionNotFound)
		}

		if next.Type == Expense {
			b, err := tx.Budgets().FindByCategory(ctx, userID, next.CategoryId)
			if err != nil {
				if shared.IsNotFound(err) {
					return errNoBudgetFor(next.CategoryId)
				}
				return err
			}
			if err := tx.Budgets().AdjustSpent(ctx, b.Id, next.Amount); err != nil {
				return err
			}
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, appErrors.Expose("transaction.update", err)
	}

	s.invalidate(ctx, userID)
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, transactionID, userID ulid.ULID) (*RemoveResult, error) {
	err := s.UnitOfWork.Do(ctx, func(tx Tx) error {
		stored, err := lockOwned(ctx, tx, transactionID, userID)
		if err != nil {
			return err
		}

		if stored.Type == Expense {
			if err := revertExpense(ctx, tx, stored); err != nil {
				return err
			}
		}

		// a row already gone rolls the revert back with it
		return notFoundAs(tx.Transactions().Delete(ctx, transactionID, userID), appErrors.ErrTransactionNotFound)
	})
	if err != nil {
		return nil, appErrors.Expose("transaction.remove", err)
	}

	s.invalidate(ctx, userID)
	return &RemoveResult{Message: fmt.Sprintf("Transaction %s deleted successfully", transactionID)}, nil
}

func (s *Service) Get(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error) {
	var found *Transaction
	err := s.UnitOfWork.Snapshot(ctx, func(tx Tx) error {
		t, err := loadOwned(ctx, tx, transactionID, userID)
		found = t
		return err
	})
	if err != nil {
		return nil, appErrors.Expose("transaction.get", err)
	}
	return found, nil
}

// List returns one page of the user's transactions plus a report over the
// whole filtered window. Every read happens inside the same snapshot.
func (s *Service) List(ctx context.Context, userID ulid.ULID, filters report.Filters, pagination *pkg.PaginationParams) (*report.Page[*Transaction], error) {
	if filters.Type != "" && !Types(filters.Type).IsValid() {
		return nil, invalidType()
	}
	if filters.DateFrom != nil {
		from := filters.DateFrom.UTC()
		filters.DateFrom = &from
	}
	if filters.DateTo != nil {
		to := filters.DateTo.UTC()
		filters.DateTo = &to
	}

	var page *report.Page[*Transaction]
	err := s.UnitOfWork.Snapshot(ctx, func(tx Tx) error {
		var err error
		page, err = report.Aggregate[*Transaction](ctx, tx.Transactions(), userID, filters, pagination)
		return err
	})
	if err != nil {
		return nil, appErrors.Expose("transaction.list", err)
	}
	return page, nil
}

func (s *Service) invalidate(ctx context.Context, userID ulid.ULID) {
	cache.Invalidate(ctx, s.Cache, cache.LedgerKeys(userID)...)
}

func loadOwned(ctx context.Context, tx Tx, transactionID, userID ulid.ULID) (*Transaction, error) {
	t, err := tx.Transactions().GetByIDAndUser(ctx, transactionID, userID)
	if err != nil {
		return nil, notFoundAs(err, appErrors.ErrTransactionNotFound)
	}
	return t, nil
}

func lockOwned(ctx context.Context, tx Tx, transactionID, userID ulid.ULID) (*Transaction, error) {
	t, err := tx.Transactions().GetForUpdate(ctx, transactionID, userID)
	if err != nil {
		return nil, notFoundAs(err, appErrors.ErrTransactionNotFound)
	}
	return t, nil
}

func notFoundAs(err error, notFound *appErrors.AppError) error {
	if err != nil && shared.IsNotFound(err) {
		return notFound
	}
	return err
}

// revertExpense takes a stored expense back out of its budget. A budget that
// no longer exists has nothing to revert.
func revertExpense(ctx context.Context, tx Tx, stored *Transaction) error {
	b, err := tx.Budgets().FindByCategory(ctx, stored.UserId, stored.CategoryId)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	return tx.Budgets().AdjustSpent(ctx, b.Id, stored.Amount.Neg())
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return appErrors.NewValidationError("amount", "amount must be greater than zero")
	}
	if !amount.Round(2).Equal(amount) {
		return appErrors.NewValidationError("amount", "amount must have at most two decimal places")
	}
	return nil
}

func invalidType() *appErrors.AppError {
	return appErrors.NewValidationError("type", "type must be INCOME or EXPENSE")
}
