package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
	"github.com/labasubagia22/money-app-api/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CashFlowService assembles the cash flow query shapes and write path
type CashFlowService struct {
	cashFlowRepo   domain.CashFlowRepository
	categoryRepo   domain.CategoryRepository
	receiptService *ReceiptService
}

// NewCashFlowService creates a new CashFlowService
func NewCashFlowService(cashFlowRepo domain.CashFlowRepository, categoryRepo domain.CategoryRepository, receiptService *ReceiptService) *CashFlowService {
	return &CashFlowService{
		cashFlowRepo:   cashFlowRepo,
		categoryRepo:   categoryRepo,
		receiptService: receiptService,
	}
}

// resolveWindow applies the default window (current calendar month, UTC) and
// normalizes the bounds to start-of-day / end-of-day. Range facets compare
// against these instants inclusively.
func resolveWindow(startDate, endDate *time.Time) (time.Time, time.Time, error) {
	monthStart, monthEnd := util.MonthRange(time.Now())

	start := monthStart
	if startDate != nil {
		start = util.StartOfDay(*startDate)
	}
	end := monthEnd
	if endDate != nil {
		end = util.EndOfDay(*endDate)
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

// loadCatalog fetches the user's categories and indexes them by id
func (s *CashFlowService) loadCatalog(userID uuid.UUID) (catalog, error) {
	categories, err := s.categoryRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return buildCatalog(categories)
}

// GetSummary computes the all-time balance plus the in-range balance, income
// and expense totals. The all-time facet ignores the window entirely, so the
// scan is unfiltered and the window only partitions in memory.
func (s *CashFlowService) GetSummary(userID uuid.UUID, startDate, endDate *time.Time) (*domain.CashFlowSummary, error) {
	start, end, err := resolveWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	cat, err := s.loadCatalog(userID)
	if err != nil {
		return nil, err
	}

	cashFlows, err := s.cashFlowRepo.GetByUser(userID, nil)
	if err != nil {
		return nil, err
	}

	return summarize(cashFlows, cat, start, end), nil
}

// GetByUser lists a user's cash flows inside the window, optionally
// restricted to one category, enriched and ordered by date descending then
// name ascending.
func (s *CashFlowService) GetByUser(userID uuid.UUID, startDate, endDate *time.Time, categoryID *uuid.UUID) ([]*domain.CashFlowDetail, error) {
	start, end, err := resolveWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	cat, err := s.loadCatalog(userID)
	if err != nil {
		return nil, err
	}

	cashFlows, err := s.cashFlowRepo.GetByUser(userID, &domain.CashFlowFilters{
		StartDate:  &start,
		EndDate:    &end,
		CategoryID: categoryID,
	})
	if err != nil {
		return nil, err
	}

	details := enrichAll(cashFlows, cat)
	sortDetails(details)
	s.attachReceiptURLs(details)
	return details, nil
}

// GetByID looks up one cash flow scoped by owner. An entry whose category no
// longer resolves behaves like a missing entry, matching the listing and
// summary exclusion policy.
func (s *CashFlowService) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.CashFlowDetail, error) {
	cashFlow, err := s.cashFlowRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(userID, cashFlow.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ErrCashFlowNotFound
		}
		return nil, err
	}
	if !category.Type.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	detail := &domain.CashFlowDetail{
		CashFlow:     *cashFlow,
		CategoryName: category.Name,
		CategoryType: category.Type,
		SignedAmount: domain.SignedAmount(cashFlow.Amount, category.Type),
	}
	s.attachReceiptURLs([]*domain.CashFlowDetail{detail})
	return detail, nil
}

// ReceiptUpload carries an uploaded receipt file
type ReceiptUpload struct {
	Data     []byte
	Filename string
}

// CreateCashFlowInput holds the input for creating a cash flow
type CreateCashFlowInput struct {
	Name       string
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Note       *string
	Date       time.Time
	Receipt    *ReceiptUpload
}

// CreateCashFlow creates a new cash flow with validation
func (s *CashFlowService) CreateCashFlow(userID uuid.UUID, input CreateCashFlowInput) (*domain.CashFlow, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCashFlowNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.Date.IsZero() {
		return nil, domain.ErrDateRequired
	}

	note, err := normalizeNote(input.Note)
	if err != nil {
		return nil, err
	}

	// Category must exist and belong to the user
	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, err
	}

	var receiptPath *string
	if input.Receipt != nil {
		path, err := s.receiptService.Upload(context.Background(), userID, input.Receipt.Data, input.Receipt.Filename)
		if err != nil {
			return nil, err
		}
		receiptPath = &path
	}

	return s.cashFlowRepo.Create(&domain.CashFlow{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Amount:      input.Amount,
		Note:        note,
		Date:        util.StartOfDay(input.Date),
		ReceiptPath: receiptPath,
	})
}

// UpdateCashFlowInput holds the input for updating a cash flow. Nil fields
// keep the current values.
type UpdateCashFlowInput struct {
	Name       *string
	CategoryID *uuid.UUID
	Amount     *decimal.Decimal
	Note       *string
	Date       *time.Time
	Receipt    *ReceiptUpload
}

// UpdateCashFlow merges the provided fields over the stored entry and
// persists the result. A new receipt replaces the old object.
func (s *CashFlowService) UpdateCashFlow(userID uuid.UUID, id uuid.UUID, input UpdateCashFlowInput) (*domain.CashFlow, error) {
	current, err := s.cashFlowRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	data := &domain.UpdateCashFlowData{
		Name:        current.Name,
		CategoryID:  current.CategoryID,
		Amount:      current.Amount,
		Note:        current.Note,
		Date:        current.Date,
		ReceiptPath: current.ReceiptPath,
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxCashFlowNameLength {
			return nil, domain.ErrNameTooLong
		}
		data.Name = name
	}

	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		data.Amount = *input.Amount
	}

	if input.Note != nil {
		note, err := normalizeNote(input.Note)
		if err != nil {
			return nil, err
		}
		data.Note = note
	}

	if input.Date != nil {
		data.Date = util.StartOfDay(*input.Date)
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(userID, *input.CategoryID); err != nil {
			return nil, err
		}
		data.CategoryID = *input.CategoryID
	}

	if input.Receipt != nil {
		path, err := s.receiptService.Upload(context.Background(), userID, input.Receipt.Data, input.Receipt.Filename)
		if err != nil {
			return nil, err
		}
		oldPath := current.ReceiptPath
		data.ReceiptPath = &path

		// Best-effort cleanup of the replaced object
		if oldPath != nil {
			if err := s.receiptService.Delete(context.Background(), *oldPath); err != nil {
				log.Warn().Err(err).Str("path", *oldPath).Msg("Failed to delete replaced receipt")
			}
		}
	}

	return s.cashFlowRepo.Update(userID, id, data)
}

// DeleteCashFlow removes a cash flow and its stored receipt
func (s *CashFlowService) DeleteCashFlow(userID uuid.UUID, id uuid.UUID) error {
	current, err := s.cashFlowRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.cashFlowRepo.Delete(userID, id); err != nil {
		return err
	}

	if current.ReceiptPath != nil && s.receiptService.IsEnabled() {
		if err := s.receiptService.Delete(context.Background(), *current.ReceiptPath); err != nil {
			log.Warn().Err(err).Str("path", *current.ReceiptPath).Msg("Failed to delete receipt")
		}
	}
	return nil
}

// attachReceiptURLs resolves stored receipt paths into presigned links.
// Failures leave the URL unset; reads never fail because storage is down.
func (s *CashFlowService) attachReceiptURLs(details []*domain.CashFlowDetail) {
	if !s.receiptService.IsEnabled() {
		return
	}
	for _, detail := range details {
		if detail.ReceiptPath == nil {
			continue
		}
		url, err := s.receiptService.PresignedURL(context.Background(), *detail.ReceiptPath)
		if err != nil {
			log.Warn().Err(err).Str("path", *detail.ReceiptPath).Msg("Failed to presign receipt URL")
			continue
		}
		detail.ReceiptURL = &url
	}
}

func normalizeNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxCashFlowNoteLength {
		return nil, domain.ErrNoteTooLong
	}
	return &trimmed, nil
}
