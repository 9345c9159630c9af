package goal

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Goal is unique per (UserId, CategoryId, Name).
type Goal struct {
	Id           ulid.ULID       `json:"id"`
	UserId       ulid.ULID       `json:"userId"`
	CategoryId   ulid.ULID       `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	Name       string
	CategoryId ulid.ULID
	Amount     decimal.Decimal
	Date       time.Time
}

type UpdateInput struct {
	Name       *string
	CategoryId *ulid.ULID
	Amount     *decimal.Decimal
	Date       *time.Time
}
