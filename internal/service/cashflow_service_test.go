package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
	"github.com/labasubagia22/money-app-api/internal/testutil"
	"github.com/shopspring/decimal"
)

func newTestCashFlowService() (*CashFlowService, *testutil.MockCashFlowRepository, *testutil.MockCategoryRepository) {
	cashFlowRepo := testutil.NewMockCashFlowRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	receiptService := NewReceiptService(nil)
	return NewCashFlowService(cashFlowRepo, categoryRepo, receiptService), cashFlowRepo, categoryRepo
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestGetSummary_Success(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	food := expenseCategory(userID, "Food")
	categoryRepo.AddCategory(salary)
	categoryRepo.AddCategory(food)

	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)})
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: food.ID, Name: "Groceries", Amount: decimal.NewFromInt(200), Date: date(2024, time.March, 10)})
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Refund", Amount: decimal.NewFromInt(100), Date: date(2024, time.February, 20)})

	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	summary, err := svc.GetSummary(userID, &start, &end)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

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
}

func TestGetSummary_EmptyUser(t *testing.T) {
	svc, _, _ := newTestCashFlowService()

	summary, err := svc.GetSummary(uuid.New(), nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Balance.Equal(decimal.Zero) || !summary.BalanceInRange.Equal(decimal.Zero) ||
		!summary.IncomeInRange.Equal(decimal.Zero) || !summary.ExpenseInRange.Equal(decimal.Zero) {
		t.Errorf("Expected all facets zero, got %+v", summary)
	}
}

func TestGetSummary_InvalidDateRange(t *testing.T) {
	svc, _, _ := newTestCashFlowService()

	start := date(2024, time.March, 31)
	end := date(2024, time.March, 1)

	_, err := svc.GetSummary(uuid.New(), &start, &end)
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
}

func TestGetSummary_InvalidCategoryTypeFails(t *testing.T) {
	svc, _, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{UserID: userID, Name: "Broken", Type: domain.CategoryType("transfer")})

	_, err := svc.GetSummary(userID, nil, nil)
	if !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestGetByUser_OrderedDateDescNameAsc(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Zebra", Amount: decimal.NewFromInt(1), Date: date(2024, time.March, 10)})
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Apple", Amount: decimal.NewFromInt(1), Date: date(2024, time.March, 10)})
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Late", Amount: decimal.NewFromInt(1), Date: date(2024, time.March, 20)})

	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	details, err := svc.GetByUser(userID, &start, &end, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(details) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(details))
	}
	want := []string{"Late", "Apple", "Zebra"}
	for i, name := range want {
		if details[i].Name != name {
			t.Errorf("Expected position %d to be %s, got %s", i, name, details[i].Name)
		}
	}
}

func TestGetByUser_CategoryFilter(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	food := expenseCategory(userID, "Food")
	categoryRepo.AddCategory(salary)
	categoryRepo.AddCategory(food)

	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)})
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: food.ID, Name: "Groceries", Amount: decimal.NewFromInt(200), Date: date(2024, time.March, 10)})

	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	details, err := svc.GetByUser(userID, &start, &end, &food.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(details) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(details))
	}
	if details[0].Name != "Groceries" {
		t.Errorf("Expected 'Groceries', got %s", details[0].Name)
	}
	if !details[0].SignedAmount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected signed amount -200, got %s", details[0].SignedAmount)
	}
}

func TestGetByUser_ExcludesOtherUsers(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	otherID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: otherID, CategoryID: salary.ID, Name: "Not mine", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)})

	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	details, err := svc.GetByUser(userID, &start, &end, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(details) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(details))
	}
}

func TestGetByUser_DefaultWindowIsCurrentMonth(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	now := time.Now().UTC()
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "This month", Amount: decimal.NewFromInt(100), Date: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)})
	cashFlowRepo.AddCashFlow(&domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Last year", Amount: decimal.NewFromInt(100), Date: now.AddDate(-1, 0, 0)})

	details, err := svc.GetByUser(userID, nil, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(details) != 1 {
		t.Fatalf("Expected 1 entry inside the default window, got %d", len(details))
	}
	if details[0].Name != "This month" {
		t.Errorf("Expected 'This month', got %s", details[0].Name)
	}
}

func TestGetByID_Success(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	food := expenseCategory(userID, "Food")
	categoryRepo.AddCategory(food)

	cf := &domain.CashFlow{UserID: userID, CategoryID: food.ID, Name: "Groceries", Amount: decimal.NewFromInt(200), Date: date(2024, time.March, 10)}
	cashFlowRepo.AddCashFlow(cf)

	detail, err := svc.GetByID(userID, cf.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if detail.CategoryName != "Food" {
		t.Errorf("Expected category name 'Food', got %s", detail.CategoryName)
	}
	if detail.CategoryType != domain.CategoryTypeExpense {
		t.Errorf("Expected category type 'expense', got %s", detail.CategoryType)
	}
	if !detail.SignedAmount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected signed amount -200, got %s", detail.SignedAmount)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestCashFlowService()

	_, err := svc.GetByID(uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrCashFlowNotFound) {
		t.Errorf("Expected ErrCashFlowNotFound, got %v", err)
	}
}

func TestGetByID_OtherUsersEntryNotFound(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	ownerID := uuid.New()
	food := expenseCategory(ownerID, "Food")
	categoryRepo.AddCategory(food)

	cf := &domain.CashFlow{UserID: ownerID, CategoryID: food.ID, Name: "Groceries", Amount: decimal.NewFromInt(200), Date: date(2024, time.March, 10)}
	cashFlowRepo.AddCashFlow(cf)

	_, err := svc.GetByID(uuid.New(), cf.ID)
	if !errors.Is(err, domain.ErrCashFlowNotFound) {
		t.Errorf("Expected ErrCashFlowNotFound, got %v", err)
	}
}

func TestGetByID_DanglingCategoryNotFound(t *testing.T) {
	svc, cashFlowRepo, _ := newTestCashFlowService()

	userID := uuid.New()
	cf := &domain.CashFlow{UserID: userID, CategoryID: uuid.New(), Name: "Orphan", Amount: decimal.NewFromInt(100), Date: date(2024, time.March, 10)}
	cashFlowRepo.AddCashFlow(cf)

	_, err := svc.GetByID(userID, cf.ID)
	if !errors.Is(err, domain.ErrCashFlowNotFound) {
		t.Errorf("Expected ErrCashFlowNotFound, got %v", err)
	}
}

func TestCreateCashFlow_Success(t *testing.T) {
	svc, _, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	note := "march paycheck"
	cf, err := svc.CreateCashFlow(userID, CreateCashFlowInput{
		Name:       "  Paycheck  ",
		CategoryID: salary.ID,
		Amount:     decimal.NewFromInt(500),
		Note:       &note,
		Date:       time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cf.Name != "Paycheck" {
		t.Errorf("Expected trimmed name 'Paycheck', got %q", cf.Name)
	}
	if !cf.Date.Equal(date(2024, time.March, 5)) {
		t.Errorf("Expected date normalized to start of day, got %s", cf.Date)
	}
	if cf.Note == nil || *cf.Note != "march paycheck" {
		t.Errorf("Expected note to be kept, got %v", cf.Note)
	}
}

func TestCreateCashFlow_Validation(t *testing.T) {
	svc, _, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	tests := []struct {
		name    string
		input   CreateCashFlowInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateCashFlowInput{Name: "   ", CategoryID: salary.ID, Amount: decimal.NewFromInt(10), Date: date(2024, time.March, 1)},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "zero amount",
			input:   CreateCashFlowInput{Name: "X", CategoryID: salary.ID, Amount: decimal.Zero, Date: date(2024, time.March, 1)},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   CreateCashFlowInput{Name: "X", CategoryID: salary.ID, Amount: decimal.NewFromInt(-5), Date: date(2024, time.March, 1)},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "missing date",
			input:   CreateCashFlowInput{Name: "X", CategoryID: salary.ID, Amount: decimal.NewFromInt(10)},
			wantErr: domain.ErrDateRequired,
		},
		{
			name:    "unknown category",
			input:   CreateCashFlowInput{Name: "X", CategoryID: uuid.New(), Amount: decimal.NewFromInt(10), Date: date(2024, time.March, 1)},
			wantErr: domain.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCashFlow(userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateCashFlow_ReceiptWithoutStorage(t *testing.T) {
	svc, _, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	_, err := svc.CreateCashFlow(userID, CreateCashFlowInput{
		Name:       "Paycheck",
		CategoryID: salary.ID,
		Amount:     decimal.NewFromInt(500),
		Date:       date(2024, time.March, 5),
		Receipt:    &ReceiptUpload{Data: []byte("not an image"), Filename: "receipt.jpg"},
	})
	if !errors.Is(err, ErrReceiptStorageNotConfigured) {
		t.Errorf("Expected ErrReceiptStorageNotConfigured, got %v", err)
	}
}

func TestUpdateCashFlow_PartialMerge(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	note := "original"
	cf := &domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Note: &note, Date: date(2024, time.March, 5)}
	cashFlowRepo.AddCashFlow(cf)

	newAmount := decimal.NewFromInt(600)
	updated, err := svc.UpdateCashFlow(userID, cf.ID, UpdateCashFlowInput{Amount: &newAmount})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.Amount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected amount 600, got %s", updated.Amount)
	}
	if updated.Name != "Paycheck" {
		t.Errorf("Expected name unchanged, got %s", updated.Name)
	}
	if updated.Note == nil || *updated.Note != "original" {
		t.Errorf("Expected note unchanged, got %v", updated.Note)
	}
	if updated.CategoryID != salary.ID {
		t.Errorf("Expected category unchanged")
	}
}

func TestUpdateCashFlow_UnknownCategoryRejected(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	cf := &domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)}
	cashFlowRepo.AddCashFlow(cf)

	badID := uuid.New()
	_, err := svc.UpdateCashFlow(userID, cf.ID, UpdateCashFlowInput{CategoryID: &badID})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCashFlow_Success(t *testing.T) {
	svc, cashFlowRepo, categoryRepo := newTestCashFlowService()

	userID := uuid.New()
	salary := incomeCategory(userID, "Salary")
	categoryRepo.AddCategory(salary)

	cf := &domain.CashFlow{UserID: userID, CategoryID: salary.ID, Name: "Paycheck", Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 5)}
	cashFlowRepo.AddCashFlow(cf)

	if err := svc.DeleteCashFlow(userID, cf.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.GetByID(userID, cf.ID); !errors.Is(err, domain.ErrCashFlowNotFound) {
		t.Errorf("Expected entry to be gone, got %v", err)
	}
}

func TestDeleteCashFlow_NotFound(t *testing.T) {
	svc, _, _ := newTestCashFlowService()

	err := svc.DeleteCashFlow(uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrCashFlowNotFound) {
		t.Errorf("Expected ErrCashFlowNotFound, got %v", err)
	}
}

func TestResolveWindow_NormalizesBounds(t *testing.T) {
	start := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

	gotStart, gotEnd, err := resolveWindow(ptrTime(start), ptrTime(end))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !gotStart.Equal(date(2024, time.March, 5)) {
		t.Errorf("Expected start of day, got %s", gotStart)
	}
	wantEnd := time.Date(2024, time.March, 10, 23, 59, 59, 999999999, time.UTC)
	if !gotEnd.Equal(wantEnd) {
		t.Errorf("Expected end of day, got %s", gotEnd)
	}
}
