package transaction

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Types string

const (
	Income  Types = "INCOME"
	Expense Types = "EXPENSE"
)

func (t Types) IsValid() bool {
	return t == Income || t == Expense
}

// Transaction amounts are always positive; Type carries the direction.
type Transaction struct {
	Id           ulid.ULID       `json:"id"`
	UserId       ulid.ULID       `json:"userId"`
	CategoryId   ulid.ULID       `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Type         Types           `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	CategoryId  ulid.ULID
	Type        Types
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// Patch fields left nil keep their stored value.
type Patch struct {
	CategoryId  *ulid.ULID
	Type        *Types
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

func (p Patch) apply(t *Transaction) {
	if p.CategoryId != nil {
		t.CategoryId = *p.CategoryId
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = p.Date.UTC()
	}
}

type RemoveResult struct {
	Message string `json:"message"`
}
