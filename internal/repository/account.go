package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pimentellima/mockdata-server/internal/model"
)

type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	// AddCredits increments the balance by deltaMilli and returns the updated row.
	AddCredits(ctx context.Context, id string, deltaMilli int64) (*model.Account, error)
	// DebitCredits atomically subtracts costMilli if and only if the current
	// balance covers it, returning the updated row. Returns nil when the
	// balance was insufficient; the row is left untouched in that case.
	DebitCredits(ctx context.Context, id string, costMilli int64) (*model.Account, error)
	Delete(ctx context.Context, id string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AccountRepository
}

type accountRepo struct {
	db sqlxDB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) WithTx(tx *sqlx.Tx) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE id = $1
	`, id)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE email = $1
	`, email)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO accounts (id, email, display_name, password_hash, credits_milli)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ID, params.Email, params.DisplayName, params.PasswordHash, params.CreditsMilli)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) AddCredits(ctx context.Context, id string, deltaMilli int64) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		UPDATE accounts SET credits_milli = credits_milli + $2
		WHERE id = $1
		RETURNING *
	`, id, deltaMilli)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) DebitCredits(ctx context.Context, id string, costMilli int64) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		UPDATE accounts SET credits_milli = credits_milli - $2
		WHERE id = $1 AND credits_milli >= $2
		RETURNING *
	`, id, costMilli)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}
