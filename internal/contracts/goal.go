package contracts

import "github.com/shopspring/decimal"

type GoalCreateRequest struct {
	Name       string          `json:"name" binding:"required,max=100"`
	CategoryId string          `json:"categoryId" binding:"required,ulid"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date" binding:"required"`
}

type GoalUpdateRequest struct {
	Name       *string          `json:"name" binding:"omitempty,max=100"`
	CategoryId *string          `json:"categoryId" binding:"omitempty,ulid"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       *string          `json:"date"`
}
