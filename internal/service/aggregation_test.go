package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func incomeCategory(userID uuid.UUID, name string) *domain.Category {
	return &domain.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Type:   domain.CategoryTypeIncome,
	}
}

func expenseCategory(userID uuid.UUID, name string) *domain.Category {
	return &domain.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Type:   domain.CategoryTypeExpense,
	}
}

func TestBuildCatalog_Success(t *testing.T) {
	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	food := expenseCategory(userID, "Food")

	cat, err := buildCatalog([]*domain.Category{salary, food})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(cat) != 2 {
		t.Errorf("Expected 2 catalog entries, got %d", len(cat))
	}
	if cat[salary.ID] != salary {
		t.Errorf("Expected salary category at its id")
	}
}

func TestBuildCatalog_InvalidType(t *testing.T) {
	userID := uuid.New()
	bad := &domain.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Broken",
		Type:   domain.CategoryType("transfer"),
	}

	_, err := buildCatalog([]*domain.Category{bad})
	if err == nil {
		t.Fatal("Expected error for invalid category type")
	}
	if !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestEnrich_SignsByCategoryType(t *testing.T) {
	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	food := expenseCategory(userID, "Food")
	cat, _ := buildCatalog([]*domain.Category{salary, food})

	income := &domain.CashFlow{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: salary.ID,
		Name:       "Paycheck",
		Amount:     decimal.NewFromInt(500),
		Date:       date(2024, time.March, 5),
	}
	expense := &domain.CashFlow{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: food.ID,
		Name:       "Groceries",
		Amount:     decimal.NewFromInt(200),
		Date:       date(2024, time.March, 10),
	}

	detail, ok := enrich(income, cat)
	if !ok {
		t.Fatal("Expected income entry to enrich")
	}
	if !detail.SignedAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected signed amount 500, got %s", detail.SignedAmount)
	}
	if detail.CategoryName != "Salary" {
		t.Errorf("Expected category name 'Salary', got %s", detail.CategoryName)
	}

	detail, ok = enrich(expense, cat)
	if !ok {
		t.Fatal("Expected expense entry to enrich")
	}
	if !detail.SignedAmount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected signed amount -200, got %s", detail.SignedAmount)
	}
}

func TestEnrich_DanglingCategoryExcluded(t *testing.T) {
	userID := uuid.New()
	cat, _ := buildCatalog(nil)

	orphan := &domain.CashFlow{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: uuid.New(),
		Name:       "Orphan",
		Amount:     decimal.NewFromInt(100),
		Date:       date(2024, time.March, 1),
	}

	if _, ok := enrich(orphan, cat); ok {
		t.Error("Expected dangling category reference to be excluded")
	}

	details := enrichAll([]*domain.CashFlow{orphan}, cat)
	if len(details) != 0 {
		t.Errorf("Expected 0 enriched entries, got %d", len(details))
	}
}

// Scenario: income 500 and expense 200 in March, income 100 in February.
// A March window sees 300 in range against an all-time balance of 400.
func TestSummarize_OverlappingFacets(t *testing.T) {
	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	food := expenseCategory(userID, "Food")
	cat, _ := buildCatalog([]*domain.Category{salary, food})

	cashFlows := []*domain.CashFlow{
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)},
		{ID: uuid.New(), UserID: userID, CategoryID: food.ID, Name: "Groceries", Amount: decimal.NewFromInt(200), Date: date(2024, time.March, 10)},
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "Refund", Amount: decimal.NewFromInt(100), Date: date(2024, time.February, 20)},
	}

	start := date(2024, time.March, 1)
	end := time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC)

	summary := summarize(cashFlows, cat, start, end)

	if !summary.Balance.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected balance 400, got %s", summary.Balance)
	}
	if !summary.BalanceInRange.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected balance in range 300, got %s", summary.BalanceInRange)
	}
	if !summary.IncomeInRange.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected income in range 500, got %s", summary.IncomeInRange)
	}
	if !summary.ExpenseInRange.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected expense in range -200, got %s", summary.ExpenseInRange)
	}

	// Income and expense facets partition the in-range balance
	if !summary.IncomeInRange.Add(summary.ExpenseInRange).Equal(summary.BalanceInRange) {
		t.Errorf("Expected income + expense to equal balance in range")
	}
}

func TestSummarize_EmptySet(t *testing.T) {
	cat, _ := buildCatalog(nil)

	summary := summarize(nil, cat, date(2024, time.March, 1), date(2024, time.March, 31))

	if !summary.Balance.Equal(decimal.Zero) {
		t.Errorf("Expected zero balance, got %s", summary.Balance)
	}
	if !summary.BalanceInRange.Equal(decimal.Zero) {
		t.Errorf("Expected zero balance in range, got %s", summary.BalanceInRange)
	}
	if !summary.IncomeInRange.Equal(decimal.Zero) {
		t.Errorf("Expected zero income, got %s", summary.IncomeInRange)
	}
	if !summary.ExpenseInRange.Equal(decimal.Zero) {
		t.Errorf("Expected zero expense, got %s", summary.ExpenseInRange)
	}
}

func TestSummarize_EmptyFacetIsExactZero(t *testing.T) {
	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	cat, _ := buildCatalog([]*domain.Category{salary})

	cashFlows := []*domain.CashFlow{
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)},
	}

	summary := summarize(cashFlows, cat, date(2024, time.March, 1), date(2024, time.March, 31))

	if !summary.ExpenseInRange.Equal(decimal.Zero) {
		t.Errorf("Expected expense facet to be exact zero, got %s", summary.ExpenseInRange)
	}
	if summary.ExpenseInRange.String() != "0" {
		t.Errorf("Expected expense facet to render as 0, got %s", summary.ExpenseInRange)
	}
}

func TestSummarize_WindowBoundsInclusive(t *testing.T) {
	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	cat, _ := buildCatalog([]*domain.Category{salary})

	start := date(2024, time.March, 1)
	end := time.Date(2024, time.March, 31, 23, 59, 59, 999999999, time.UTC)

	cashFlows := []*domain.CashFlow{
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "First", Amount: decimal.NewFromInt(10), Date: start},
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "Last", Amount: decimal.NewFromInt(20), Date: date(2024, time.March, 31)},
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "Before", Amount: decimal.NewFromInt(40), Date: date(2024, time.February, 29)},
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "After", Amount: decimal.NewFromInt(80), Date: date(2024, time.April, 1)},
	}

	summary := summarize(cashFlows, cat, start, end)

	if !summary.BalanceInRange.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected balance in range 30, got %s", summary.BalanceInRange)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected all-time balance 150, got %s", summary.Balance)
	}
}

func TestSummarize_DanglingCategoryContributesNothing(t *testing.T) {
	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	cat, _ := buildCatalog([]*domain.Category{salary})

	cashFlows := []*domain.CashFlow{
		{ID: uuid.New(), UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)},
		{ID: uuid.New(), UserID: userID, CategoryID: uuid.New(), Name: "Orphan", Amount: decimal.NewFromInt(999), Date: date(2024, time.March, 6)},
	}

	summary := summarize(cashFlows, cat, date(2024, time.March, 1), date(2024, time.March, 31))

	if !summary.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected orphan entry excluded from balance, got %s", summary.Balance)
	}
	if !summary.BalanceInRange.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected orphan entry excluded from balance in range, got %s", summary.BalanceInRange)
	}
}

func TestSortDetails_DateDescNameAsc(t *testing.T) {
	details := []*domain.CashFlowDetail{
		{CashFlow: domain.CashFlow{Name: "Zebra", Date: date(2024, time.March, 10)}},
		{CashFlow: domain.CashFlow{Name: "Apple", Date: date(2024, time.March, 10)}},
		{CashFlow: domain.CashFlow{Name: "Late", Date: date(2024, time.March, 20)}},
		{CashFlow: domain.CashFlow{Name: "Early", Date: date(2024, time.March, 1)}},
	}

	sortDetails(details)

	want := []string{"Late", "Apple", "Zebra", "Early"}
	for i, name := range want {
		if details[i].Name != name {
			t.Errorf("Expected position %d to be %s, got %s", i, name, details[i].Name)
		}
	}
}
