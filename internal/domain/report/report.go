package report

import (
	"bytes"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const (
	incomeType  = "INCOME"
	expenseType = "EXPENSE"
)

// Filters narrow the transaction window. Zero values mean "no filter";
// both date bounds are inclusive.
type Filters struct {
	Type       string
	CategoryId *ulid.ULID
	DateFrom   *time.Time
	DateTo     *time.Time
}

type CategoryTotal struct {
	CategoryId ulid.ULID       `json:"categoryId"`
	Total      decimal.Decimal `json:"total"`
}

type Report struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

type Page[T any] struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalItems  int64  `json:"totalItems"`
	Data        []T    `json:"data"`
	Report      Report `json:"report"`
}

// Build assembles a report. byCategory is sorted by total descending, ties by
// category id so equal totals come back in a stable order.
func Build(income, expense decimal.Decimal, byCategory []CategoryTotal) Report {
	sorted := make([]CategoryTotal, len(byCategory))
	copy(sorted, byCategory)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Total.Cmp(sorted[j].Total); c != 0 {
			return c > 0
		}
		return bytes.Compare(sorted[i].CategoryId[:], sorted[j].CategoryId[:]) < 0
	})

	return Report{
		Income:     income,
		Expense:    expense,
		Net:        income.Sub(expense),
		ByCategory: sorted,
	}
}
