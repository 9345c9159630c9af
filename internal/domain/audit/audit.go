// Package audit recomputes every budget's spent from the transaction history
// and reports where the stored value disagrees. It never writes.
package audit

import (
	"time"

	"Finary/internal/domain/budget"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Entry struct {
	BudgetId     ulid.ULID       `json:"budgetId"`
	CategoryId   ulid.ULID       `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Period       budget.Period   `json:"period"`
	Spent        decimal.Decimal `json:"spent"`
	Expected     decimal.Decimal `json:"expected"`
	// Drift is Spent minus Expected.
	Drift decimal.Decimal `json:"drift"`
}

func (e Entry) InSync() bool {
	return e.Drift.IsZero()
}

type Report struct {
	UserId    ulid.ULID `json:"userId"`
	CheckedAt time.Time `json:"checkedAt"`
	Entries   []Entry   `json:"entries"`
}

func (r *Report) Drifted() []Entry {
	out := []Entry{}
	for _, e := range r.Entries {
		if !e.InSync() {
			out = append(out, e)
		}
	}
	return out
}

func (r *Report) HasDrift() bool {
	return len(r.Drifted()) > 0
}
