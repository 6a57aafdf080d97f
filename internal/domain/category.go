package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryType classifies a category as income or expense
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether the type is one of the two known values
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a user-owned classification of cash flows
type Category struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SignedAmount converts a stored magnitude into its contribution to balance:
// the amount itself for income, its negation for expense. Callers must have
// rejected unknown category types before reaching this point.
func SignedAmount(amount decimal.Decimal, categoryType CategoryType) decimal.Decimal {
	if categoryType == CategoryTypeIncome {
		return amount
	}
	return amount.Neg()
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Category, error)
	GetByUser(userID uuid.UUID) ([]*Category, error)
	Update(userID uuid.UUID, id uuid.UUID, name string, categoryType CategoryType) (*Category, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}
