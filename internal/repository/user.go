package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ronnysenna/envio-massa-sub000/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// User represents an account that owns contacts, groups and campaigns
type User struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRepository struct {
	database *db.Database
}

func NewUserRepository(database *db.Database) *UserRepository {
	return &UserRepository{database: database}
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user User
		id   pgtype.UUID
	)
	err := row.Scan(&id, &user.Nome, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	user.ID = pgToUUID(id)
	return &user, nil
}

const userColumns = `id, nome, email, password_hash, created_at`

// Create inserts a new user account
func (r *UserRepository) Create(ctx context.Context, nome, email, passwordHash string) (*User, error) {
	row := r.database.Pool.QueryRow(ctx,
		`INSERT INTO users (nome, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		nome, email, passwordHash,
	)
	user, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, db.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.database.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.database.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		uuidToPg(id),
	)
	return scanUser(row)
}
