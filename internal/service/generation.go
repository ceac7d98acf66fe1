package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/pimentellima/mockdata-server/internal/database"
	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/genai"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/repository"
)

// TxRunner runs a unit of work inside one atomic transaction. *database.DB
// satisfies it; tests substitute a runner that hands out a nil tx.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type GenerationResult struct {
	RunID       string
	Results     []model.NamedResult
	CostMilli   int64
	CreditsLeft int64
}

// GenerationService owns the end-to-end generation transaction: cost gate,
// prompt composition, the external generation call, output validation, and
// the atomic run+results+debit commit.
type GenerationService struct {
	tx          TxRunner
	accountRepo repository.AccountRepository
	runRepo     repository.RunRepository
	resultRepo  repository.NamedResultRepository
	generator   genai.Generator
	policy      *CreditPolicy
}

func NewGenerationService(
	tx TxRunner,
	accountRepo repository.AccountRepository,
	runRepo repository.RunRepository,
	resultRepo repository.NamedResultRepository,
	generator genai.Generator,
	policy *CreditPolicy,
) *GenerationService {
	return &GenerationService{
		tx:          tx,
		accountRepo: accountRepo,
		runRepo:     runRepo,
		resultRepo:  resultRepo,
		generator:   generator,
		policy:      policy,
	}
}

func (s *GenerationService) Generate(ctx context.Context, accountID string, req model.GenerationRequest) (*GenerationResult, error) {
	if accountID == "" {
		return nil, apperrors.Unauthenticated("Sign in to generate data")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if account == nil {
		return nil, apperrors.AccountNotFound()
	}

	cost, err := s.policy.Authorize(account.CreditsMilli, req)
	if err != nil {
		return nil, err
	}

	prompt := genai.BuildPrompt(req)

	entries, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("accountId", accountID).Msg("generation call failed")
		return nil, apperrors.GenerationFailed(err)
	}

	payloads, err := extractPayloads(req, entries)
	if err != nil {
		return nil, err
	}

	outcome := &GenerationResult{CostMilli: cost}
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		run, err := s.runRepo.WithTx(tx).Create(ctx, model.CreateRunParams{
			ID:        uuid.NewString(),
			AccountID: accountID,
		})
		if err != nil {
			return err
		}
		outcome.RunID = run.ID

		resultRepo := s.resultRepo.WithTx(tx)
		for i, entry := range entries {
			result, err := resultRepo.Create(ctx, model.CreateNamedResultParams{
				ID:             uuid.NewString(),
				RunID:          run.ID,
				Name:           entry.Name,
				TypeDefinition: entry.TypeDefinition,
				Payload:        payloads[i],
			})
			if err != nil {
				return err
			}
			outcome.Results = append(outcome.Results, *result)
		}

		// The conditional debit re-checks sufficiency against the committed
		// balance, so a concurrent spend cannot push it below zero. The
		// returned row carries the balance the debit actually left behind.
		debited, err := s.accountRepo.WithTx(tx).DebitCredits(ctx, accountID, cost)
		if err != nil {
			return err
		}
		if debited == nil {
			return apperrors.InsufficientCredits()
		}
		outcome.CreditsLeft = debited.CreditsMilli
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		log.Error().Err(err).Str("accountId", accountID).Msg("generation commit failed")
		return nil, apperrors.Internal("Failed to persist generation").WithCause(err)
	}

	log.Info().
		Str("accountId", accountID).
		Str("runId", outcome.RunID).
		Int("results", len(outcome.Results)).
		Int64("costMilli", cost).
		Msg("generation committed")

	return outcome, nil
}

// Request size limits. Counts are capped so cost arithmetic stays well
// inside int64 range; an uncapped count could wrap the cost negative and
// turn the debit into a credit.
const (
	maxCountPerSpec         = 50
	maxTypeDefinitionLength = 3000
	maxDescriptionLength    = 300
)

func validateRequest(req model.GenerationRequest) error {
	if len(req.Types) == 0 {
		return apperrors.MissingRequired("types")
	}
	if len(req.Description) > maxDescriptionLength {
		return apperrors.InvalidInput("description", "must be at most 300 characters")
	}
	for _, spec := range req.Types {
		if spec.Name == "" {
			return apperrors.MissingRequired("type name")
		}
		if spec.TypeDefinition == "" {
			return apperrors.MissingRequired("type definition")
		}
		if len(spec.TypeDefinition) > maxTypeDefinitionLength {
			return apperrors.InvalidInput("typeDefinition", "must be at most 3000 characters")
		}
		if spec.Count < 1 {
			return apperrors.InvalidInput("count", "must be at least 1")
		}
		if spec.Count > maxCountPerSpec {
			return apperrors.InvalidInput("count", "must be at most 50")
		}
	}
	return nil
}

// extractPayloads validates every entry's array-as-string before anything is
// persisted. A single bad entry rejects the whole run.
func extractPayloads(req model.GenerationRequest, entries []genai.Entry) ([]string, error) {
	if len(entries) != len(req.Types) {
		return nil, apperrors.InvalidGenerationOutput(
			fmt.Sprintf("expected %d results, got %d", len(req.Types), len(entries)))
	}

	payloads := make([]string, len(entries))
	for i, entry := range entries {
		payload, ok := extractJSONArray(entry.JSONArray)
		if !ok {
			return nil, apperrors.InvalidGenerationOutput(
				fmt.Sprintf("result %q is not a valid JSON array", entry.Name))
		}
		payloads[i] = payload
	}
	return payloads, nil
}

// extractJSONArray pulls the array out of the generated string, tolerating
// stray text around it, and confirms it parses as a JSON array.
func extractJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &records); err != nil {
		return "", false
	}
	return candidate, true
}
