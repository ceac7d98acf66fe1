package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pimentellima/mockdata-server/internal/model"
)

type RefreshTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	FindByAccount(ctx context.Context, accountID string) (*model.RefreshToken, error)
	Create(ctx context.Context, params model.CreateRefreshTokenParams) (*model.RefreshToken, error)
	// Extend pushes the expiry out to expiresAt. The stored expiry never moves
	// backwards, so retried extensions are idempotent.
	Extend(ctx context.Context, token string, expiresAt time.Time) (*model.RefreshToken, error)
	DeleteByAccount(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) RefreshTokenRepository
}

type refreshTokenRepo struct {
	db sqlxDB
}

func NewRefreshTokenRepository(db *sqlx.DB) RefreshTokenRepository {
	return &refreshTokenRepo{db: db}
}

func (r *refreshTokenRepo) WithTx(tx *sqlx.Tx) RefreshTokenRepository {
	return &refreshTokenRepo{db: tx}
}

func (r *refreshTokenRepo) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var refreshToken model.RefreshToken
	err := r.db.GetContext(ctx, &refreshToken, `
		SELECT * FROM refresh_tokens WHERE token = $1
	`, token)
	return HandleNotFound(&refreshToken, err)
}

func (r *refreshTokenRepo) FindByAccount(ctx context.Context, accountID string) (*model.RefreshToken, error) {
	var refreshToken model.RefreshToken
	err := r.db.GetContext(ctx, &refreshToken, `
		SELECT * FROM refresh_tokens WHERE account_id = $1
	`, accountID)
	return HandleNotFound(&refreshToken, err)
}

func (r *refreshTokenRepo) Create(ctx context.Context, params model.CreateRefreshTokenParams) (*model.RefreshToken, error) {
	var refreshToken model.RefreshToken
	err := r.db.GetContext(ctx, &refreshToken, `
		INSERT INTO refresh_tokens (token, account_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Token, params.AccountID, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

func (r *refreshTokenRepo) Extend(ctx context.Context, token string, expiresAt time.Time) (*model.RefreshToken, error) {
	var refreshToken model.RefreshToken
	err := r.db.GetContext(ctx, &refreshToken, `
		UPDATE refresh_tokens SET expires_at = GREATEST(expires_at, $2)
		WHERE token = $1
		RETURNING *
	`, token, expiresAt)
	return HandleNotFound(&refreshToken, err)
}

func (r *refreshTokenRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens WHERE account_id = $1
	`, accountID)
	return err
}

func (r *refreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens WHERE expires_at < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
