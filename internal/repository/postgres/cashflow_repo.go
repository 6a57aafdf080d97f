package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labasubagia22/money-app-api/internal/domain"
)

// CashFlowRepository implements domain.CashFlowRepository using PostgreSQL
type CashFlowRepository struct {
	pool *pgxpool.Pool
}

// NewCashFlowRepository creates a new CashFlowRepository
func NewCashFlowRepository(pool *pgxpool.Pool) *CashFlowRepository {
	return &CashFlowRepository{pool: pool}
}

const cashFlowColumns = `id, user_id, category_id, name, amount, note, date, receipt_path, created_at, updated_at`

// Create creates a new cash flow
func (r *CashFlowRepository) Create(cashFlow *domain.CashFlow) (*domain.CashFlow, error) {
	amount, err := decimalToPgNumeric(cashFlow.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO cash_flows (user_id, category_id, name, amount, note, date, receipt_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+cashFlowColumns,
		uuidToPg(cashFlow.UserID),
		uuidToPg(cashFlow.CategoryID),
		cashFlow.Name,
		amount,
		stringPtrToPgText(cashFlow.Note),
		pgtype.Timestamptz{Time: cashFlow.Date, Valid: true},
		stringPtrToPgText(cashFlow.ReceiptPath))
	return scanCashFlow(row)
}

// GetByID retrieves a cash flow by its ID scoped to a user. An entry owned
// by another user is indistinguishable from a missing one.
func (r *CashFlowRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.CashFlow, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+cashFlowColumns+` FROM cash_flows WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	return scanCashFlow(row)
}

// GetByUser retrieves a user's cash flows with optional conjunctive filters.
// Nil filter fields are left out of the predicate entirely.
func (r *CashFlowRepository) GetByUser(userID uuid.UUID, filters *domain.CashFlowFilters) ([]*domain.CashFlow, error) {
	query := `SELECT ` + cashFlowColumns + ` FROM cash_flows WHERE user_id = $1`
	args := []any{uuidToPg(userID)}

	if filters != nil {
		if filters.StartDate != nil {
			args = append(args, pgtype.Timestamptz{Time: *filters.StartDate, Valid: true})
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, pgtype.Timestamptz{Time: *filters.EndDate, Valid: true})
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
		if filters.CategoryID != nil {
			args = append(args, uuidToPg(*filters.CategoryID))
			query += fmt.Sprintf(" AND category_id = $%d", len(args))
		}
	}

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cashFlows []*domain.CashFlow
	for rows.Next() {
		cashFlow, err := scanCashFlow(rows)
		if err != nil {
			return nil, err
		}
		cashFlows = append(cashFlows, cashFlow)
	}
	return cashFlows, rows.Err()
}

// Update updates a cash flow's details
func (r *CashFlowRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateCashFlowData) (*domain.CashFlow, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE cash_flows
		SET name = $3, category_id = $4, amount = $5, note = $6, date = $7, receipt_path = $8, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+cashFlowColumns,
		uuidToPg(userID),
		uuidToPg(id),
		data.Name,
		uuidToPg(data.CategoryID),
		amount,
		stringPtrToPgText(data.Note),
		pgtype.Timestamptz{Time: data.Date, Valid: true},
		stringPtrToPgText(data.ReceiptPath))
	return scanCashFlow(row)
}

// Delete removes a cash flow
func (r *CashFlowRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM cash_flows WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCashFlowNotFound
	}
	return nil
}

// CountByCategory counts a user's cash flows referencing a category
func (r *CashFlowRepository) CountByCategory(userID uuid.UUID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM cash_flows WHERE user_id = $1 AND category_id = $2`,
		uuidToPg(userID), uuidToPg(categoryID)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanCashFlow(row pgx.Row) (*domain.CashFlow, error) {
	var (
		id, userID, categoryID     pgtype.UUID
		name                       string
		amount                     pgtype.Numeric
		note, receiptPath          pgtype.Text
		date, createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &categoryID, &name, &amount, &note, &date, &receiptPath, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashFlowNotFound
		}
		return nil, err
	}
	return &domain.CashFlow{
		ID:          pgToUUID(id),
		UserID:      pgToUUID(userID),
		CategoryID:  pgToUUID(categoryID),
		Name:        name,
		Amount:      pgNumericToDecimal(amount),
		Note:        pgTextToStringPtr(note),
		Date:        date.Time,
		ReceiptPath: pgTextToStringPtr(receiptPath),
		CreatedAt:   createdAt.Time,
		UpdatedAt:   updatedAt.Time,
	}, nil
}
