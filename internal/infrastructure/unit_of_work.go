package infrastructure

import (
	"context"
	"database/sql"

	"Finary/internal/domain/audit"
	"Finary/internal/domain/budget"
	"Finary/internal/domain/report"
	"Finary/internal/domain/transaction"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// UnitOfWork hands repositories bound to a single database transaction to the
// ledger services.
type UnitOfWork struct {
	DB *gorm.DB
}

var (
	_ transaction.UnitOfWork = (*UnitOfWork)(nil)
	_ audit.Store            = (*AuditStore)(nil)
)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{DB: db}
}

type txScope struct {
	transactions *TransactionRepository
	budgets      *BudgetRepository
}

func newTxScope(tx *gorm.DB) *txScope {
	return &txScope{
		transactions: &TransactionRepository{DB: tx},
		budgets:      &BudgetRepository{DB: tx},
	}
}

func (s *txScope) Transactions() transaction.Repository { return s.transactions }

func (s *txScope) Budgets() transaction.BudgetLedger { return s.budgets }

func (s *txScope) ListBudgets(ctx context.Context, userID ulid.ULID) ([]*budget.Budget, error) {
	return s.budgets.ListByUser(ctx, userID)
}

func (s *txScope) ExpenseByCategory(ctx context.Context, userID ulid.ULID) ([]report.CategoryTotal, error) {
	return s.transactions.SumByCategory(ctx, userID, report.Filters{Type: string(transaction.Expense)})
}

// Do commits when fn returns nil and rolls back otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx transaction.Tx) error) error {
	return u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxScope(tx))
	})
}

func (u *UnitOfWork) Snapshot(ctx context.Context, fn func(tx transaction.Tx) error) error {
	return u.readOnly(ctx, func(scope *txScope) error { return fn(scope) })
}

func (u *UnitOfWork) readOnly(ctx context.Context, fn func(scope *txScope) error) error {
	return u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxScope(tx))
	}, u.snapshotOptions())
}

// snapshotOptions returns nil on SQLite, which rejects isolation levels other
// than serializable and already serialises through a single connection.
func (u *UnitOfWork) snapshotOptions() *sql.TxOptions {
	if u.DB.Dialector.Name() == "sqlite" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// AuditStore exposes the unit of work's snapshots to the ledger audit.
type AuditStore struct {
	uow *UnitOfWork
}

func NewAuditStore(uow *UnitOfWork) *AuditStore {
	return &AuditStore{uow: uow}
}

func (s *AuditStore) Snapshot(ctx context.Context, fn func(l audit.Ledger) error) error {
	return s.uow.readOnly(ctx, func(scope *txScope) error { return fn(scope) })
}
