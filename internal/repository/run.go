package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pimentellima/mockdata-server/internal/model"
)

type RunRepository interface {
	FindByID(ctx context.Context, id string) (*model.Run, error)
	Create(ctx context.Context, params model.CreateRunParams) (*model.Run, error)
	// ListByAccount returns the account's runs newest-first.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Run, error)
	CountByAccount(ctx context.Context, accountID string) (int, error)
	// SetVisibility flips api_visible; the account predicate keeps the write
	// owner-scoped even if the caller's check raced a deletion.
	SetVisibility(ctx context.Context, id, accountID string, visible bool) (bool, error)
	Delete(ctx context.Context, id, accountID string) (bool, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) RunRepository
}

type runRepo struct {
	db sqlxDB
}

func NewRunRepository(db *sqlx.DB) RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) WithTx(tx *sqlx.Tx) RunRepository {
	return &runRepo{db: tx}
}

func (r *runRepo) FindByID(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run
	err := r.db.GetContext(ctx, &run, `
		SELECT * FROM runs WHERE id = $1
	`, id)
	return HandleNotFound(&run, err)
}

func (r *runRepo) Create(ctx context.Context, params model.CreateRunParams) (*model.Run, error) {
	var run model.Run
	err := r.db.GetContext(ctx, &run, `
		INSERT INTO runs (id, account_id)
		VALUES ($1, $2)
		RETURNING *
	`, params.ID, params.AccountID)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Run, error) {
	var runs []model.Run
	err := r.db.SelectContext(ctx, &runs, `
		SELECT * FROM runs
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *runRepo) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM runs WHERE account_id = $1
	`, accountID)
	return count, err
}

func (r *runRepo) SetVisibility(ctx context.Context, id, accountID string, visible bool) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE runs SET api_visible = $3
		WHERE id = $1 AND account_id = $2
	`, id, accountID, visible)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *runRepo) Delete(ctx context.Context, id, accountID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id = $1 AND account_id = $2
	`, id, accountID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
