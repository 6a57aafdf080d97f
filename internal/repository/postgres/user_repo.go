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

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, created_at, updated_at`

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuidToPg(id))
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID creates a new user or returns the existing one
// (upsert on login)
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (auth0_id, email, name, picture_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email, updated_at = now()
		RETURNING `+userColumns,
		auth0ID, email, stringPtrToPgText(name), stringPtrToPgText(pictureURL))
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id                  pgtype.UUID
		auth0ID, email      string
		name, pictureURL    pgtype.Text
		createdAt, updateAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &auth0ID, &email, &name, &pictureURL, &createdAt, &updateAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.User{
		ID:         pgToUUID(id),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       pgTextToStringPtr(name),
		PictureURL: pgTextToStringPtr(pictureURL),
		CreatedAt:  createdAt.Time,
		UpdatedAt:  updateAt.Time,
	}, nil
}
