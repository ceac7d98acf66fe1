package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/model"
	"github.com/pimentellima/mockdata-server/internal/util"
)

const testInitialCreditsMilli = 2500

func TestAccountService_SignUp(t *testing.T) {
	t.Run("creates account with starting balance", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)
		ctx := context.Background()

		accounts.On("FindByEmail", ctx, "ada@example.com").Return(nil, nil)
		accounts.On("Create", ctx, mock.MatchedBy(func(p model.CreateAccountParams) bool {
			return p.Email == "ada@example.com" &&
				p.CreditsMilli == testInitialCreditsMilli &&
				p.ID != "" &&
				p.PasswordHash != "secret123"
		})).Return(&model.Account{
			ID:           "acct-1",
			Email:        "ada@example.com",
			CreditsMilli: testInitialCreditsMilli,
		}, nil)

		account, err := svc.SignUp(ctx, "ada@example.com", "secret123", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(testInitialCreditsMilli), account.CreditsMilli)
		accounts.AssertExpectations(t)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)

		_, err := svc.SignUp(context.Background(), "not-an-email", "secret123", nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects short password", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)

		_, err := svc.SignUp(context.Background(), "ada@example.com", "short", nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)
		ctx := context.Background()

		accounts.On("FindByEmail", ctx, "ada@example.com").Return(&model.Account{ID: "acct-1"}, nil)

		_, err := svc.SignUp(ctx, "ada@example.com", "secret123", nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeAlreadyExists, apperrors.GetCode(err))
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	hash, err := util.HashPassword("secret123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)
		ctx := context.Background()

		accounts.On("FindByEmail", ctx, "ada@example.com").Return(&model.Account{
			ID:           "acct-1",
			Email:        "ada@example.com",
			PasswordHash: hash,
		}, nil)

		account, err := svc.Authenticate(ctx, "ada@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "acct-1", account.ID)
	})

	t.Run("unknown email and wrong password look identical", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)
		ctx := context.Background()

		accounts.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)
		accounts.On("FindByEmail", ctx, "ada@example.com").Return(&model.Account{
			ID:           "acct-1",
			PasswordHash: hash,
		}, nil)

		_, errUnknown := svc.Authenticate(ctx, "ghost@example.com", "secret123")
		_, errWrong := svc.Authenticate(ctx, "ada@example.com", "wrong-password")

		require.Error(t, errUnknown)
		require.Error(t, errWrong)
		assert.Equal(t, apperrors.GetCode(errUnknown), apperrors.GetCode(errWrong))
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}

func TestAccountService_TopUp(t *testing.T) {
	t.Run("adds purchased credits", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)
		ctx := context.Background()

		accounts.On("AddCredits", ctx, "acct-1", int64(10000)).Return(&model.Account{
			ID:           "acct-1",
			CreditsMilli: 12500,
		}, nil)

		balance, err := svc.TopUp(ctx, "acct-1", 10)
		require.NoError(t, err)
		assert.Equal(t, int64(12500), balance)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)

		_, err := svc.TopUp(context.Background(), "acct-1", 0)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		accounts.AssertNotCalled(t, "AddCredits", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown account", func(t *testing.T) {
		accounts := &mockAccountRepo{}
		svc := NewAccountService(accounts, testInitialCreditsMilli)
		ctx := context.Background()

		accounts.On("AddCredits", ctx, "acct-x", int64(5000)).Return(nil, nil)

		_, err := svc.TopUp(ctx, "acct-x", 5)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeAccountNotFound, apperrors.GetCode(err))
	})
}

func TestAccountService_Balance(t *testing.T) {
	accounts := &mockAccountRepo{}
	svc := NewAccountService(accounts, testInitialCreditsMilli)
	ctx := context.Background()

	accounts.On("FindByID", ctx, "acct-1").Return(&model.Account{
		ID:           "acct-1",
		CreditsMilli: 4210,
	}, nil)

	balance, err := svc.Balance(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4210), balance)
}
