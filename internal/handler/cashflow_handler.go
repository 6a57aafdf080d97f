package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/domain"
	"github.com/labasubagia22/money-app-api/internal/middleware"
	"github.com/labasubagia22/money-app-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CashFlowHandler handles cash flow HTTP requests
type CashFlowHandler struct {
	cashFlowService *service.CashFlowService
}

// NewCashFlowHandler creates a new CashFlowHandler
func NewCashFlowHandler(cashFlowService *service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService}
}

// CashFlowResponse represents a cash flow in API responses
type CashFlowResponse struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Amount     string  `json:"amount"`
	Note       *string `json:"note,omitempty"`
	Date       string  `json:"date"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// CashFlowDetailResponse is a cash flow enriched with its category
type CashFlowDetailResponse struct {
	CashFlowResponse
	CategoryName string  `json:"categoryName"`
	CategoryType string  `json:"categoryType"`
	SignedAmount string  `json:"signedAmount"`
	ReceiptURL   *string `json:"receiptUrl,omitempty"`
}

// SummaryResponse represents the facet sums in API responses. Expense keeps
// its negative sign; clients format the magnitude.
type SummaryResponse struct {
	Balance        string `json:"balance"`
	BalanceInRange string `json:"balanceInRange"`
	IncomeInRange  string `json:"incomeInRange"`
	ExpenseInRange string `json:"expenseInRange"`
}

// GetSummary handles GET /api/v1/cashflows/summary
func (h *CashFlowHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	startDate, endDate, err := parseWindowParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	summary, err := h.cashFlowService.GetSummary(userID, startDate, endDate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			return NewValidationError(c, "start_date must not be after end_date", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get summary")
		return NewInternalError(c, "Failed to get summary")
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Balance:        summary.Balance.String(),
		BalanceInRange: summary.BalanceInRange.String(),
		IncomeInRange:  summary.IncomeInRange.String(),
		ExpenseInRange: summary.ExpenseInRange.String(),
	})
}

// GetCashFlows handles GET /api/v1/cashflows
func (h *CashFlowHandler) GetCashFlows(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	startDate, endDate, err := parseWindowParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	var categoryID *uuid.UUID
	if raw := c.QueryParam("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid category_id", nil)
		}
		categoryID = &parsed
	}

	details, err := h.cashFlowService.GetByUser(userID, startDate, endDate, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			return NewValidationError(c, "start_date must not be after end_date", nil)
		}
		if errors.Is(err, domain.ErrInvalidCategoryType) {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Category catalog misconfigured")
			return NewInternalError(c, "Category configuration error")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list cash flows")
		return NewInternalError(c, "Failed to list cash flows")
	}

	response := make([]CashFlowDetailResponse, len(details))
	for i, detail := range details {
		response[i] = toCashFlowDetailResponse(detail)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCashFlow handles GET /api/v1/cashflows/:id
func (h *CashFlowHandler) GetCashFlow(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid cash flow ID", nil)
	}

	detail, err := h.cashFlowService.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCashFlowNotFound) {
			return NewNotFoundError(c, "Cash flow not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("cash_flow_id", id.String()).Msg("Failed to get cash flow")
		return NewInternalError(c, "Failed to get cash flow")
	}

	return c.JSON(http.StatusOK, toCashFlowDetailResponse(detail))
}

// CreateCashFlow handles POST /api/v1/cashflows (multipart form, optional
// receipt file)
func (h *CashFlowHandler) CreateCashFlow(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	name := c.FormValue("name")
	if name == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	}

	categoryID, err := uuid.Parse(c.FormValue("category_id"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category_id", Message: "Category ID is required"},
		})
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse(dateLayout, c.FormValue("date"))
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var note *string
	if raw := c.FormValue("note"); raw != "" {
		note = &raw
	}

	receipt, err := readReceiptFile(c)
	if err != nil {
		return NewValidationError(c, "Failed to read receipt file", []ValidationError{
			{Field: "receipt", Message: "Could not read uploaded file"},
		})
	}

	input := service.CreateCashFlowInput{
		Name:       name,
		CategoryID: categoryID,
		Amount:     amount,
		Note:       note,
		Date:       date,
		Receipt:    receipt,
	}

	cashFlow, err := h.cashFlowService.CreateCashFlow(userID, input)
	if err != nil {
		if resp := mapCashFlowWriteError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create cash flow")
		return NewInternalError(c, "Failed to create cash flow")
	}

	log.Info().Str("user_id", userID.String()).Str("cash_flow_id", cashFlow.ID.String()).Str("name", cashFlow.Name).Msg("Cash flow created")

	return c.JSON(http.StatusCreated, toCashFlowResponse(cashFlow))
}

// UpdateCashFlow handles PUT /api/v1/cashflows/:id. Omitted form fields keep
// their stored values.
func (h *CashFlowHandler) UpdateCashFlow(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid cash flow ID", nil)
	}

	input := service.UpdateCashFlowInput{}

	if raw := c.FormValue("name"); raw != "" {
		input.Name = &raw
	}
	if raw := c.FormValue("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid category_id", nil)
		}
		input.CategoryID = &categoryID
	}
	if raw := c.FormValue("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if raw := c.FormValue("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.Date = &date
	}
	// An empty note form value reads as "not provided", so an update cannot
	// clear a stored note, consistent with the other omitted fields
	if raw := c.FormValue("note"); raw != "" {
		input.Note = &raw
	}

	receipt, err := readReceiptFile(c)
	if err != nil {
		return NewValidationError(c, "Failed to read receipt file", []ValidationError{
			{Field: "receipt", Message: "Could not read uploaded file"},
		})
	}
	input.Receipt = receipt

	cashFlow, err := h.cashFlowService.UpdateCashFlow(userID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrCashFlowNotFound) {
			return NewNotFoundError(c, "Cash flow not found")
		}
		if resp := mapCashFlowWriteError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("cash_flow_id", id.String()).Msg("Failed to update cash flow")
		return NewInternalError(c, "Failed to update cash flow")
	}

	log.Info().Str("user_id", userID.String()).Str("cash_flow_id", cashFlow.ID.String()).Msg("Cash flow updated")

	return c.JSON(http.StatusOK, toCashFlowResponse(cashFlow))
}

// DeleteCashFlow handles DELETE /api/v1/cashflows/:id
func (h *CashFlowHandler) DeleteCashFlow(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid cash flow ID", nil)
	}

	if err := h.cashFlowService.DeleteCashFlow(userID, id); err != nil {
		if errors.Is(err, domain.ErrCashFlowNotFound) {
			return NewNotFoundError(c, "Cash flow not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("cash_flow_id", id.String()).Msg("Failed to delete cash flow")
		return NewInternalError(c, "Failed to delete cash flow")
	}

	log.Info().Str("user_id", userID.String()).Str("cash_flow_id", id.String()).Msg("Cash flow deleted")

	return c.JSON(http.StatusOK, map[string]string{"message": "Cash flow deleted"})
}

// parseWindowParams reads optional start_date/end_date query params. Missing
// params stay nil so the service applies its current-month default. The
// returned error carries the user-facing message; the handler writes the
// response.
func parseWindowParams(c echo.Context) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if raw := c.QueryParam("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, errors.New("Invalid start_date format (use YYYY-MM-DD)")
		}
		startDate = &parsed
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, errors.New("Invalid end_date format (use YYYY-MM-DD)")
		}
		endDate = &parsed
	}
	return startDate, endDate, nil
}

// readReceiptFile extracts the optional receipt upload from a multipart form.
// Errors are reported to the handler, which writes the response.
func readReceiptFile(c echo.Context) (*service.ReceiptUpload, error) {
	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		// Missing file is fine; the receipt is optional
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &service.ReceiptUpload{
		Data:     data,
		Filename: fileHeader.Filename,
	}, nil
}

// mapCashFlowWriteError translates validation errors from the service into
// responses; returns nil for errors the caller should treat as internal
func mapCashFlowWriteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrDateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Date is required"},
		})
	case errors.Is(err, domain.ErrNoteTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "note", Message: "Note must be 1000 characters or less"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category_id", Message: "Category not found"},
		})
	case errors.Is(err, service.ErrReceiptTooLarge),
		errors.Is(err, service.ErrReceiptInvalidFormat),
		errors.Is(err, service.ErrReceiptInvalidData):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "receipt", Message: err.Error()},
		})
	}
	return nil
}

func toCashFlowResponse(cf *domain.CashFlow) CashFlowResponse {
	return CashFlowResponse{
		ID:         cf.ID.String(),
		CategoryID: cf.CategoryID.String(),
		Name:       cf.Name,
		Amount:     cf.Amount.String(),
		Note:       cf.Note,
		Date:       cf.Date.Format(dateLayout),
		CreatedAt:  cf.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  cf.UpdatedAt.Format(time.RFC3339),
	}
}

func toCashFlowDetailResponse(detail *domain.CashFlowDetail) CashFlowDetailResponse {
	return CashFlowDetailResponse{
		CashFlowResponse: toCashFlowResponse(&detail.CashFlow),
		CategoryName:     detail.CategoryName,
		CategoryType:     string(detail.CategoryType),
		SignedAmount:     detail.SignedAmount.String(),
		ReceiptURL:       detail.ReceiptURL,
	}
}
