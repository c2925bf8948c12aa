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

// Session is one issued authentication token with its expiry
type Session struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionRepository struct {
	database *db.Database
}

func NewSessionRepository(database *db.Database) *SessionRepository {
	return &SessionRepository{database: database}
}

// Create persists a new session token for the user
func (r *SessionRepository) Create(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) (*Session, error) {
	var (
		session Session
		id      pgtype.UUID
	)
	err := r.database.Pool.QueryRow(ctx,
		`INSERT INTO sessions (token, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING token, user_id, expires_at, created_at`,
		token, uuidToPg(userID), expiresAt,
	).Scan(&session.Token, &id, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		return nil, err
	}
	session.UserID = pgToUUID(id)
	return &session, nil
}

// GetByToken retrieves a session that has not expired yet
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*Session, error) {
	var (
		session Session
		id      pgtype.UUID
	)
	err := r.database.Pool.QueryRow(ctx,
		`SELECT token, user_id, expires_at, created_at
		 FROM sessions
		 WHERE token = $1 AND expires_at > now()`,
		token,
	).Scan(&session.Token, &id, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	session.UserID = pgToUUID(id)
	return &session, nil
}

// Delete removes a session (logout)
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.database.Pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpired purges sessions past their expiry and returns how many were
// removed. Called from the cron scheduler.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.database.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
