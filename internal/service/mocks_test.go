package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/pimentellima/mockdata-server/internal/database"
	"github.com/pimentellima/mockdata-server/internal/genai"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/repository"
)

// Mock repositories

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) AddCredits(ctx context.Context, id string, deltaMilli int64) (*model.Account, error) {
	args := m.Called(ctx, id, deltaMilli)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) DebitCredits(ctx context.Context, id string, costMilli int64) (*model.Account, error) {
	args := m.Called(ctx, id, costMilli)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepo) WithTx(tx *sqlx.Tx) repository.AccountRepository {
	return m
}

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) FindByID(ctx context.Context, id string) (*model.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunRepo) Create(ctx context.Context, params model.CreateRunParams) (*model.Run, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Run, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockRunRepo) CountByAccount(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *mockRunRepo) SetVisibility(ctx context.Context, id, accountID string, visible bool) (bool, error) {
	args := m.Called(ctx, id, accountID, visible)
	return args.Bool(0), args.Error(1)
}

func (m *mockRunRepo) Delete(ctx context.Context, id, accountID string) (bool, error) {
	args := m.Called(ctx, id, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRunRepo) WithTx(tx *sqlx.Tx) repository.RunRepository {
	return m
}

type mockResultRepo struct {
	mock.Mock
}

func (m *mockResultRepo) FindByID(ctx context.Context, id string) (*model.NamedResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NamedResult), args.Error(1)
}

func (m *mockResultRepo) FindPublicByID(ctx context.Context, id string) (*model.PublicNamedResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublicNamedResult), args.Error(1)
}

func (m *mockResultRepo) Create(ctx context.Context, params model.CreateNamedResultParams) (*model.NamedResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NamedResult), args.Error(1)
}

func (m *mockResultRepo) ListByRun(ctx context.Context, runID string) ([]model.NamedResult, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.NamedResult), args.Error(1)
}

func (m *mockResultRepo) WithTx(tx *sqlx.Tx) repository.NamedResultRepository {
	return m
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) FindByAccount(ctx context.Context, accountID string) (*model.RefreshToken, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) Create(ctx context.Context, params model.CreateRefreshTokenParams) (*model.RefreshToken, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) Extend(ctx context.Context, token string, expiresAt time.Time) (*model.RefreshToken, error) {
	args := m.Called(ctx, token, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepo) WithTx(tx *sqlx.Tx) repository.RefreshTokenRepository {
	return m
}

// fakeTxRunner executes the unit of work without a real transaction so the
// mocked repositories observe every call.
type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn database.TxFunc) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

// stubGenerator returns canned entries or an error.
type stubGenerator struct {
	entries []genai.Entry
	err     error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) ([]genai.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}
