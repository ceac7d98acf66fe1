package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/repository"
	"github.com/pimentellima/mockdata-server/internal/session"
	"github.com/pimentellima/mockdata-server/internal/util"
)

// SessionService maintains the one canonical rotating refresh token per
// account and derives short-lived access windows from it.
type SessionService struct {
	tokenRepo  repository.RefreshTokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewSessionService(
	tokenRepo repository.RefreshTokenRepository,
	secret string,
	accessTTL, refreshTTL time.Duration,
) *SessionService {
	return &SessionService{
		tokenRepo:  tokenRepo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Obtain returns the account's refresh token, creating it on first sign-in
// and extending its expiry on every subsequent one.
func (s *SessionService) Obtain(ctx context.Context, accountID string) (*model.RefreshToken, error) {
	existing, err := s.tokenRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if existing == nil {
		value, err := util.GenerateToken()
		if err != nil {
			return nil, apperrors.Internal("Failed to generate token").WithCause(err)
		}
		token, err := s.tokenRepo.Create(ctx, model.CreateRefreshTokenParams{
			Token:     value,
			AccountID: accountID,
			ExpiresAt: s.now().Add(s.refreshTTL),
		})
		if err != nil {
			return nil, apperrors.Database(err)
		}
		log.Info().Str("accountId", accountID).Msg("refresh token issued")
		return token, nil
	}

	token, err := s.tokenRepo.Extend(ctx, existing.Token, s.now().Add(s.refreshTTL))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if token == nil {
		return nil, apperrors.RefreshTokenNotFound()
	}
	return token, nil
}

// Refresh validates the refresh token, extends it, and mints a new access
// window. Expiry or absence is fatal to the session; the caller must
// re-authenticate.
func (s *SessionService) Refresh(ctx context.Context, tokenValue string) (*session.Artifact, error) {
	token, err := s.tokenRepo.FindByToken(ctx, tokenValue)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if token == nil {
		return nil, apperrors.RefreshTokenNotFound()
	}

	now := s.now()
	if now.After(token.ExpiresAt) {
		return nil, apperrors.RefreshTokenExpired()
	}

	extended, err := s.tokenRepo.Extend(ctx, token.Token, now.Add(s.refreshTTL))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if extended == nil {
		// The token was revoked between lookup and extension; the session
		// must not get a new access window.
		return nil, apperrors.RefreshTokenNotFound()
	}

	return &session.Artifact{
		AccountID:       token.AccountID,
		RefreshToken:    token.Token,
		AccessExpiresAt: now.Add(s.accessTTL),
	}, nil
}

// Issue builds a fresh artifact for a just-authenticated account.
func (s *SessionService) Issue(ctx context.Context, accountID string) (*session.Artifact, error) {
	token, err := s.Obtain(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &session.Artifact{
		AccountID:       accountID,
		RefreshToken:    token.Token,
		AccessExpiresAt: s.now().Add(s.accessTTL),
	}, nil
}

// Encode signs an artifact for transport in the session cookie.
func (s *SessionService) Encode(artifact session.Artifact) (string, error) {
	return session.Encode(artifact, s.secret)
}

// Decode verifies and parses a session cookie value.
func (s *SessionService) Decode(raw string) (*session.Artifact, error) {
	return session.Decode(raw, s.secret)
}

// RevokeAll signs the account out everywhere. Outstanding artifacts die when
// their access window lapses and the refresh lookup fails.
func (s *SessionService) RevokeAll(ctx context.Context, accountID string) error {
	if err := s.tokenRepo.DeleteByAccount(ctx, accountID); err != nil {
		return apperrors.Database(err)
	}
	log.Info().Str("accountId", accountID).Msg("refresh tokens revoked")
	return nil
}
