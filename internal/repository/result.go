package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pimentellima/mockdata-server/internal/model"
)

type NamedResultRepository interface {
	FindByID(ctx context.Context, id string) (*model.NamedResult, error)
	// FindPublicByID loads a named result joined with its parent run's
	// visibility flag for the anonymous read path.
	FindPublicByID(ctx context.Context, id string) (*model.PublicNamedResult, error)
	Create(ctx context.Context, params model.CreateNamedResultParams) (*model.NamedResult, error)
	ListByRun(ctx context.Context, runID string) ([]model.NamedResult, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) NamedResultRepository
}

type namedResultRepo struct {
	db sqlxDB
}

func NewNamedResultRepository(db *sqlx.DB) NamedResultRepository {
	return &namedResultRepo{db: db}
}

func (r *namedResultRepo) WithTx(tx *sqlx.Tx) NamedResultRepository {
	return &namedResultRepo{db: tx}
}

func (r *namedResultRepo) FindByID(ctx context.Context, id string) (*model.NamedResult, error) {
	var result model.NamedResult
	err := r.db.GetContext(ctx, &result, `
		SELECT * FROM named_results WHERE id = $1
	`, id)
	return HandleNotFound(&result, err)
}

func (r *namedResultRepo) FindPublicByID(ctx context.Context, id string) (*model.PublicNamedResult, error) {
	var result model.PublicNamedResult
	err := r.db.GetContext(ctx, &result, `
		SELECT nr.*, r.api_visible FROM named_results nr
		JOIN runs r ON r.id = nr.run_id
		WHERE nr.id = $1
	`, id)
	return HandleNotFound(&result, err)
}

func (r *namedResultRepo) Create(ctx context.Context, params model.CreateNamedResultParams) (*model.NamedResult, error) {
	var result model.NamedResult
	err := r.db.GetContext(ctx, &result, `
		INSERT INTO named_results (id, run_id, name, type_definition, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ID, params.RunID, params.Name, params.TypeDefinition, params.Payload)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *namedResultRepo) ListByRun(ctx context.Context, runID string) ([]model.NamedResult, error) {
	var results []model.NamedResult
	err := r.db.SelectContext(ctx, &results, `
		SELECT * FROM named_results
		WHERE run_id = $1
		ORDER BY name
	`, runID)
	if err != nil {
		return nil, err
	}
	return results, nil
}
