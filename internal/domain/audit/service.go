package audit

import (
	"context"
	"time"

	"Finary/internal/domain/budget"
	"Finary/internal/domain/report"
	appErrors "Finary/internal/errors"
	"Finary/internal/logger"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Ledger is the read side the audit needs, bound to one snapshot.
type Ledger interface {
	ListBudgets(ctx context.Context, userID ulid.ULID) ([]*budget.Budget, error)
	ExpenseByCategory(ctx context.Context, userID ulid.ULID) ([]report.CategoryTotal, error)
}

type Store interface {
	Snapshot(ctx context.Context, fn func(l Ledger) error) error
}

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// Run compares each budget's stored spent with the sum of the user's EXPENSE
// transactions in the budget's category. Budgets sharing a category are all
// held to the same total.
func (s *Service) Run(ctx context.Context, userID ulid.ULID) (*Report, error) {
	var (
		budgets []*budget.Budget
		totals  []report.CategoryTotal
	)
	err := s.Store.Snapshot(ctx, func(l Ledger) error {
		var err error
		if budgets, err = l.ListBudgets(ctx, userID); err != nil {
			return err
		}
		totals, err = l.ExpenseByCategory(ctx, userID)
		return err
	})
	if err != nil {
		return nil, appErrors.Expose("audit.run", err)
	}

	expected := make(map[ulid.ULID]decimal.Decimal, len(totals))
	for _, t := range totals {
		expected[t.CategoryId] = t.Total
	}

	rep := &Report{UserId: userID, CheckedAt: time.Now().UTC(), Entries: make([]Entry, 0, len(budgets))}
	for _, b := range budgets {
		want := expected[b.CategoryId]
		rep.Entries = append(rep.Entries, Entry{
			BudgetId:     b.Id,
			CategoryId:   b.CategoryId,
			CategoryName: b.CategoryName,
			Period:       b.Period,
			Spent:        b.Spent,
			Expected:     want,
			Drift:        b.Spent.Sub(want),
		})
	}

	if drifted := rep.Drifted(); len(drifted) > 0 {
		logger.Warn().
			Str("user_id", userID.String()).
			Int("drifted", len(drifted)).
			Int("budgets", len(rep.Entries)).
			Msg("ledger drift detected")
	}
	return rep, nil
}
