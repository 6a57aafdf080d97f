package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
)

// CategoryService handles category management
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	cashFlowRepo domain.CashFlowRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, cashFlowRepo domain.CashFlowRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cashFlowRepo: cashFlowRepo,
	}
}

// GetCategories lists a user's categories
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetByUser(userID)
}

// CreateCategory creates a new category. The type is restricted here so the
// catalog never holds a category with an unknown sign.
func (s *CategoryService) CreateCategory(userID uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	})
}

// UpdateCategory updates a category's name and type
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	return s.categoryRepo.Update(userID, id, name, categoryType)
}

// DeleteCategory removes a category that has no cash flows attached.
// Deleting a category out from under existing entries would silently shrink
// every aggregate, so it is refused instead.
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(userID, id); err != nil {
		return err
	}

	count, err := s.cashFlowRepo.CountByCategory(userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	return s.categoryRepo.Delete(userID, id)
}
