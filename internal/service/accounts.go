package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pimentellima/mockdata-server/internal/config"
	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/repository"
	"github.com/pimentellima/mockdata-server/internal/util"
)

const minPasswordLength = 6

type AccountService struct {
	accountRepo    repository.AccountRepository
	initialCredits int64
}

func NewAccountService(accountRepo repository.AccountRepository, initialCreditsMilli int64) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		initialCredits: initialCreditsMilli,
	}
}

// SignUp creates an account with the configured starting balance.
func (s *AccountService) SignUp(ctx context.Context, email, password string, displayName *string) (*model.Account, error) {
	if !util.IsValidEmail(email) {
		return nil, apperrors.InvalidInput("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.InvalidInput("password", "must be at least 6 characters")
	}

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Account with this email")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreditsMilli: s.initialCredits,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("accountId", account.ID).Msg("account created")
	return account, nil
}

// Authenticate verifies the credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if account == nil || !util.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}
	return account, nil
}

// Balance returns the account's credit balance in millicredits.
func (s *AccountService) Balance(ctx context.Context, accountID string) (int64, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	if account == nil {
		return 0, apperrors.AccountNotFound()
	}
	return account.CreditsMilli, nil
}

// TopUp credits an account after a verified billing event.
func (s *AccountService) TopUp(ctx context.Context, accountID string, credits int64) (int64, error) {
	if credits <= 0 {
		return 0, apperrors.InvalidInput("credits", "must be positive")
	}

	account, err := s.accountRepo.AddCredits(ctx, accountID, credits*config.CreditScale)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	if account == nil {
		return 0, apperrors.AccountNotFound()
	}

	log.Info().
		Str("accountId", accountID).
		Int64("credits", credits).
		Msg("credits purchased")
	return account.CreditsMilli, nil
}

// Delete removes the account. Runs, named results, and refresh tokens go with
// it through foreign-key cascades.
func (s *AccountService) Delete(ctx context.Context, accountID string) error {
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return apperrors.Database(err)
	}
	log.Info().Str("accountId", accountID).Msg("account deleted")
	return nil
}
