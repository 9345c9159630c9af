package transaction

import (
	"context"

	"Finary/internal/domain/budget"
	"Finary/internal/domain/report"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Repository interface {
	report.Source[*Transaction]

	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, transactionID, userID ulid.ULID) error
	GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error)
	// GetForUpdate is GetByIDAndUser holding the row lock until the unit of
	// work ends, so a concurrent update or remove of the same row waits and
	// then sees it as committed.
	GetForUpdate(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error)
}

// BudgetLedger is the budget side of the ledger as seen from inside a unit of
// work.
type BudgetLedger interface {
	// FindByCategory returns the user's budget for the category. With several
	// periods on one category the oldest budget wins.
	FindByCategory(ctx context.Context, userID, categoryID ulid.ULID) (*budget.Budget, error)
	// AdjustSpent applies spent = spent + delta as a single store-side update.
	AdjustSpent(ctx context.Context, budgetID ulid.ULID, delta decimal.Decimal) error
}

type Tx interface {
	Transactions() Repository
	Budgets() BudgetLedger
}

type UnitOfWork interface {
	// Do runs fn in one read-write transaction. Any error from fn rolls back
	// every statement fn issued.
	Do(ctx context.Context, fn func(tx Tx) error) error
	// Snapshot runs fn in one read-only transaction.
	Snapshot(ctx context.Context, fn func(tx Tx) error) error
}
