package category

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Types string

const (
	TypeExpense Types = "expense"
	TypeIncome  Types = "income"
	TypeBudget  Types = "budget"
	TypeGoal    Types = "goal"
)

func (t Types) IsValid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeBudget, TypeGoal:
		return true
	}
	return false
}

// Category names are unique per user. The type is fixed at creation.
type Category struct {
	Id          ulid.ULID `json:"id"`
	UserId      ulid.ULID `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        Types     `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name        string
	Description string
	Type        Types
}

type UpdateInput struct {
	Name        *string
	Description *string
	Type        *Types
}
