package budget

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodYearly  Period = "YEARLY"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Budget is unique per (UserId, CategoryId, Period). Spent is owned by the
// transaction ledger and is never written through this package.
type Budget struct {
	Id           ulid.ULID       `json:"id"`
	UserId       ulid.ULID       `json:"userId"`
	CategoryId   ulid.ULID       `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Allocated    decimal.Decimal `json:"allocated"`
	Spent        decimal.Decimal `json:"spent"`
	Period       Period          `json:"period"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Remaining is allocated minus spent, floored at zero.
func (b *Budget) Remaining() decimal.Decimal {
	remaining := b.Allocated.Sub(b.Spent)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func (b *Budget) Percentage() float64 {
	if b.Allocated.IsZero() {
		return 0
	}
	pct, _ := b.Spent.Div(b.Allocated).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

func (b *Budget) IsExceeded() bool {
	return b.Spent.GreaterThan(b.Allocated)
}

type Summary struct {
	TotalAllocated decimal.Decimal `json:"totalAllocated"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	TotalRemaining decimal.Decimal `json:"totalRemaining"`
	Percentage     float64         `json:"percentage"`
}

type CreateInput struct {
	CategoryId ulid.ULID
	Allocated  decimal.Decimal
	Period     Period
}

type UpdateInput struct {
	CategoryId *ulid.ULID
	Allocated  *decimal.Decimal
	Period     *Period
}
