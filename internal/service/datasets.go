package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/repository"
)

// DatasetService is the ownership-scoped view over runs and named results,
// plus the anonymous read path that serves persisted payloads as a mock API.
type DatasetService struct {
	runRepo    repository.RunRepository
	resultRepo repository.NamedResultRepository
}

func NewDatasetService(runRepo repository.RunRepository, resultRepo repository.NamedResultRepository) *DatasetService {
	return &DatasetService{
		runRepo:    runRepo,
		resultRepo: resultRepo,
	}
}

// ListRuns returns the account's runs newest-first with their named results
// attached. Ownership is enforced by the account predicate; another account's
// rows are never returned.
func (s *DatasetService) ListRuns(ctx context.Context, accountID string, limit, offset int) ([]model.RunWithResults, error) {
	runs, err := s.runRepo.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	out := make([]model.RunWithResults, 0, len(runs))
	for _, run := range runs {
		results, err := s.resultRepo.ListByRun(ctx, run.ID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		out = append(out, model.RunWithResults{Run: run, Results: results})
	}
	return out, nil
}

func (s *DatasetService) CountRuns(ctx context.Context, accountID string) (int, error) {
	count, err := s.runRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return count, nil
}

// SetVisibility flips the run's anonymous-read gate. Only the owner may flip it.
func (s *DatasetService) SetVisibility(ctx context.Context, runID, accountID string, visible bool) error {
	run, err := s.runRepo.FindByID(ctx, runID)
	if err != nil {
		return apperrors.Database(err)
	}
	if run == nil {
		return apperrors.NotFound("Run")
	}
	if run.AccountID != accountID {
		return apperrors.Forbidden("Run belongs to another account")
	}

	if _, err := s.runRepo.SetVisibility(ctx, runID, accountID, visible); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("runId", runID).Bool("apiVisible", visible).Msg("run visibility updated")
	return nil
}

// DeleteRun removes a run and, by cascade, its named results.
func (s *DatasetService) DeleteRun(ctx context.Context, runID, accountID string) error {
	run, err := s.runRepo.FindByID(ctx, runID)
	if err != nil {
		return apperrors.Database(err)
	}
	if run == nil {
		return apperrors.NotFound("Run")
	}
	if run.AccountID != accountID {
		return apperrors.Forbidden("Run belongs to another account")
	}

	if _, err := s.runRepo.Delete(ctx, runID, accountID); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("runId", runID).Str("accountId", accountID).Msg("run deleted")
	return nil
}

// ReadPublic serves a named result's payload anonymously. The parent run's
// visibility flag gates access for everyone, owner included. With recordID
// set, the single element whose stringified "id" field matches is returned,
// or JSON null when none does.
func (s *DatasetService) ReadPublic(ctx context.Context, resultID, recordID string) (json.RawMessage, error) {
	result, err := s.resultRepo.FindPublicByID(ctx, resultID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if result == nil {
		return nil, apperrors.NotFound("Result")
	}
	if !result.APIVisible {
		return nil, apperrors.APIDisabled()
	}

	if recordID == "" {
		return json.RawMessage(result.Payload), nil
	}

	return filterRecord(result.Payload, recordID)
}

func filterRecord(payload, recordID string) (json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		// Payloads are validated at creation; a parse failure here means
		// stored data was corrupted.
		return nil, apperrors.Internal("Stored payload is not a JSON array").WithCause(err)
	}

	for _, record := range records {
		var probe struct {
			ID any `json:"id"`
		}
		if err := json.Unmarshal(record, &probe); err != nil {
			continue
		}
		if probe.ID == nil {
			continue
		}
		if stringifyID(probe.ID) == recordID {
			return record, nil
		}
	}

	return json.RawMessage("null"), nil
}

func stringifyID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; integral ids print without decimals.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
