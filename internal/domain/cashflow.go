package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlow represents one recorded financial transaction. Amount is a
// magnitude; the sign is derived from the category type, never stored.
type CashFlow struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Note        *string         `json:"note,omitempty"`
	Date        time.Time       `json:"date"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CashFlowDetail is a cash flow joined to its category. It only exists for
// entries whose category id resolves; it is derived per query, never stored.
type CashFlowDetail struct {
	CashFlow
	CategoryName string          `json:"categoryName"`
	CategoryType CategoryType    `json:"categoryType"`
	SignedAmount decimal.Decimal `json:"signedAmount"`
	ReceiptURL   *string         `json:"receiptUrl,omitempty"`
}

// CashFlowSummary holds the four facet sums for one user and date window.
// ExpenseInRange keeps the negative sign convention.
type CashFlowSummary struct {
	Balance        decimal.Decimal `json:"balance"`
	BalanceInRange decimal.Decimal `json:"balanceInRange"`
	IncomeInRange  decimal.Decimal `json:"incomeInRange"`
	ExpenseInRange decimal.Decimal `json:"expenseInRange"`
}

// CashFlowFilters narrows a scan. Nil fields are omitted from the query
// entirely, they never match-null. Filters combine conjunctively.
type CashFlowFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
}

// UpdateCashFlowData carries the full post-merge state for an update
type UpdateCashFlowData struct {
	Name        string
	CategoryID  uuid.UUID
	Amount      decimal.Decimal
	Note        *string
	Date        time.Time
	ReceiptPath *string
}

// CashFlowRepository defines the interface for cash flow persistence
// operations. All reads and writes are scoped by owner.
type CashFlowRepository interface {
	Create(cashFlow *CashFlow) (*CashFlow, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*CashFlow, error)
	GetByUser(userID uuid.UUID, filters *CashFlowFilters) ([]*CashFlow, error)
	Update(userID uuid.UUID, id uuid.UUID, data *UpdateCashFlowData) (*CashFlow, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
	CountByCategory(userID uuid.UUID, categoryID uuid.UUID) (int64, error)
}
