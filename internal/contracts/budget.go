package contracts

import (
	"Finary/internal/domain/budget"

	"github.com/shopspring/decimal"
)

type BudgetCreateRequest struct {
	CategoryId string          `json:"categoryId" binding:"required,ulid"`
	Allocated  decimal.Decimal `json:"allocated"`
	Period     string          `json:"period" binding:"required,oneof=WEEKLY MONTHLY YEARLY"`
}

type BudgetUpdateRequest struct {
	CategoryId *string          `json:"categoryId" binding:"omitempty,ulid"`
	Allocated  *decimal.Decimal `json:"allocated"`
	Period     *string          `json:"period" binding:"omitempty,oneof=WEEKLY MONTHLY YEARLY"`
}

type BudgetResponse struct {
	*budget.Budget
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Status     string          `json:"status"`
}

func NewBudgetResponse(b *budget.Budget) *BudgetResponse {
	status := "OK"
	if b.IsExceeded() {
		status = "EXCEEDED"
	}
	return &BudgetResponse{
		Budget:     b,
		Remaining:  b.Remaining(),
		Percentage: b.Percentage(),
		Status:     status,
	}
}

type BudgetSummaryResponse struct {
	Summary *budget.Summary `json:"summary"`
}
