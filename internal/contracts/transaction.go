package contracts

import (
	"github.com/shopspring/decimal"
)

type TransactionCreateRequest struct {
	CategoryId  string          `json:"categoryId" binding:"required,ulid"`
	Type        string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"omitempty,max=255"`
	// Date accepts RFC3339 or YYYY-MM-DD. Empty means now.
	Date string `json:"date"`
}

type TransactionUpdateRequest struct {
	CategoryId  *string          `json:"categoryId" binding:"omitempty,ulid"`
	Type        *string          `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Date        *string          `json:"date"`
}

type TransactionListQuery struct {
	Type       string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	CategoryId string `form:"categoryId" binding:"omitempty,ulid"`
	DateFrom   string `form:"dateFrom"`
	DateTo     string `form:"dateTo"`
}
