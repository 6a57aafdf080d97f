package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labasubagia22/money-app-api/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, type, created_at, updated_at`

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		uuidToPg(category.UserID), category.Name, string(category.Type))
	return scanCategory(row)
}

// GetByID retrieves a category by its ID scoped to a user
func (r *CategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	return scanCategory(row)
}

// GetByUser retrieves all categories for a user
func (r *CategoryRepository) GetByUser(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY name ASC`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update updates a category's name and type
func (r *CategoryRepository) Update(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE categories SET name = $3, type = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		uuidToPg(userID), uuidToPg(id), name, string(categoryType))
	return scanCategory(row)
}

// Delete removes a category
func (r *CategoryRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		id, userID           pgtype.UUID
		name, categoryType   string
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &name, &categoryType, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &domain.Category{
		ID:        pgToUUID(id),
		UserID:    pgToUUID(userID),
		Name:      name,
		Type:      domain.CategoryType(categoryType),
		CreatedAt: createdAt.Time,
		UpdatedAt: updatedAt.Time,
	}, nil
}
