package testutil

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	Err        error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID scoped to a user
func (m *MockCategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByUser retrieves all categories for a user
func (m *MockCategoryRepository) GetByUser(userID uuid.UUID) ([]*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var categories []*domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Update updates a category's name and type
func (m *MockCategoryRepository) Update(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	category.Name = name
	category.Type = categoryType
	category.UpdatedAt = time.Now()
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// MockCashFlowRepository is a mock implementation of domain.CashFlowRepository
type MockCashFlowRepository struct {
	CashFlows map[uuid.UUID]*domain.CashFlow
	Err       error
}

// NewMockCashFlowRepository creates a new MockCashFlowRepository
func NewMockCashFlowRepository() *MockCashFlowRepository {
	return &MockCashFlowRepository{
		CashFlows: make(map[uuid.UUID]*domain.CashFlow),
	}
}

// Create creates a new cash flow
func (m *MockCashFlowRepository) Create(cashFlow *domain.CashFlow) (*domain.CashFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cashFlow.ID = uuid.New()
	cashFlow.CreatedAt = time.Now()
	cashFlow.UpdatedAt = cashFlow.CreatedAt
	m.CashFlows[cashFlow.ID] = cashFlow
	return cashFlow, nil
}

// GetByID retrieves a cash flow by ID scoped to a user
func (m *MockCashFlowRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.CashFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if cashFlow, ok := m.CashFlows[id]; ok && cashFlow.UserID == userID {
		return cashFlow, nil
	}
	return nil, domain.ErrCashFlowNotFound
}

// GetByUser retrieves a user's cash flows applying the optional filters
// conjunctively, like the SQL implementation
func (m *MockCashFlowRepository) GetByUser(userID uuid.UUID, filters *domain.CashFlowFilters) ([]*domain.CashFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var cashFlows []*domain.CashFlow
	for _, cashFlow := range m.CashFlows {
		if cashFlow.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && cashFlow.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && cashFlow.Date.After(*filters.EndDate) {
				continue
			}
			if filters.CategoryID != nil && cashFlow.CategoryID != *filters.CategoryID {
				continue
			}
		}
		cashFlows = append(cashFlows, cashFlow)
	}
	return cashFlows, nil
}

// Update updates a cash flow's details
func (m *MockCashFlowRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateCashFlowData) (*domain.CashFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cashFlow, ok := m.CashFlows[id]
	if !ok || cashFlow.UserID != userID {
		return nil, domain.ErrCashFlowNotFound
	}
	cashFlow.Name = data.Name
	cashFlow.CategoryID = data.CategoryID
	cashFlow.Amount = data.Amount
	cashFlow.Note = data.Note
	cashFlow.Date = data.Date
	cashFlow.ReceiptPath = data.ReceiptPath
	cashFlow.UpdatedAt = time.Now()
	return cashFlow, nil
}

// Delete removes a cash flow
func (m *MockCashFlowRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	cashFlow, ok := m.CashFlows[id]
	if !ok || cashFlow.UserID != userID {
		return domain.ErrCashFlowNotFound
	}
	delete(m.CashFlows, id)
	return nil
}

// CountByCategory counts a user's cash flows referencing a category
func (m *MockCashFlowRepository) CountByCategory(userID uuid.UUID, categoryID uuid.UUID) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	var count int64
	for _, cashFlow := range m.CashFlows {
		if cashFlow.UserID == userID && cashFlow.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// AddCashFlow adds a cash flow to the mock repository (helper for tests)
func (m *MockCashFlowRepository) AddCashFlow(cashFlow *domain.CashFlow) {
	if cashFlow.ID == uuid.Nil {
		cashFlow.ID = uuid.New()
	}
	m.CashFlows[cashFlow.ID] = cashFlow
}

// MockReceiptRepository is an in-memory implementation of
// storage.ReceiptRepository
type MockReceiptRepository struct {
	Objects map[string][]byte
	Err     error
}

// NewMockReceiptRepository creates a new MockReceiptRepository
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		Objects: make(map[string][]byte),
	}
}

// Upload stores an object in memory
func (m *MockReceiptRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes an object
func (m *MockReceiptRepository) Delete(ctx context.Context, objectPath string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockReceiptRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("https://receipts.test/%s", objectPath), nil
}
