package services

import (
	"context"
	"testing"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T, gateDeposits bool) (*AccountService, *mockAccountRepo, *mockCustomerRepo, *mockTransactionRepo, sqlmock.Sqlmock) {
	db, sqlMock := newTestDB(t)

	accountRepo := new(mockAccountRepo)
	customerRepo := new(mockCustomerRepo)
	transactionRepo := new(mockTransactionRepo)

	svc := NewAccountService(db, accountRepo, customerRepo, transactionRepo, gateDeposits)
	return svc, accountRepo, customerRepo, transactionRepo, sqlMock
}

func TestDeposit(t *testing.T) {
	customer := &models.Customer{ID: 7, UserID: 3}
	actor := Actor{UserID: 3, Role: domain.RoleCustomer}

	t.Run("settles immediately and records approved transaction", func(t *testing.T) {
		svc, accountRepo, customerRepo, transactionRepo, sqlMock := newAccountService(t, false)

		account := &models.SavingsAccount{ID: 4, CustomerID: 7, Balance: decimal.NewFromInt(1000)}
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		accountRepo.On("GetByCustomerIDForUpdate", mock.Anything, uint(7)).Return(account, nil)
		accountRepo.On("Update", mock.Anything, account).Return(nil)
		transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == domain.TxDeposit && tx.Status == domain.TxApproved && tx.ApprovedAt != nil
		})).Return(nil)
		sqlMock.ExpectCommit()

		result, err := svc.Deposit(context.Background(), actor, &ChargeInput{Amount: decimal.NewFromInt(300)})
		require.NoError(t, err)
		assert.True(t, result.Balance.Equal(decimal.NewFromInt(1300)))
		transactionRepo.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("gated deposit files a pending request without touching the balance", func(t *testing.T) {
		svc, accountRepo, customerRepo, transactionRepo, _ := newAccountService(t, true)

		account := &models.SavingsAccount{ID: 4, CustomerID: 7, Balance: decimal.NewFromInt(1000)}
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		accountRepo.On("GetByCustomerID", mock.Anything, uint(7)).Return(account, nil)
		transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == domain.TxDeposit && tx.Status == domain.TxPending
		})).Return(nil)

		result, err := svc.Deposit(context.Background(), actor, &ChargeInput{Amount: decimal.NewFromInt(300)})
		require.NoError(t, err)
		assert.True(t, result.Balance.Equal(decimal.NewFromInt(1000)))
		accountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, _, _, _, _ := newAccountService(t, false)

		_, err := svc.Deposit(context.Background(), actor, &ChargeInput{Amount: decimal.Zero})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("staff cannot deposit", func(t *testing.T) {
		svc, _, _, _, _ := newAccountService(t, false)

		_, err := svc.Deposit(context.Background(), Actor{UserID: 9, Role: domain.RoleStaff}, &ChargeInput{Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRequestWithdrawal(t *testing.T) {
	customer := &models.Customer{ID: 7, UserID: 3}
	actor := Actor{UserID: 3, Role: domain.RoleCustomer}

	t.Run("files a pending request, ledger untouched", func(t *testing.T) {
		svc, accountRepo, customerRepo, transactionRepo, _ := newAccountService(t, false)

		account := &models.SavingsAccount{ID: 4, CustomerID: 7, Balance: decimal.NewFromInt(1000)}
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		accountRepo.On("GetByCustomerID", mock.Anything, uint(7)).Return(account, nil)
		transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == domain.TxWithdrawal && tx.Status == domain.TxPending
		})).Return(nil)

		result, err := svc.RequestWithdrawal(context.Background(), actor, &ChargeInput{Amount: decimal.NewFromInt(5000)})
		require.NoError(t, err)
		// Even an oversized request is accepted here, the balance check
		// happens at approval time
		assert.True(t, result.Balance.Equal(decimal.NewFromInt(1000)))
		accountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		svc, _, _, _, _ := newAccountService(t, false)

		_, err := svc.RequestWithdrawal(context.Background(), actor, &ChargeInput{Amount: decimal.NewFromInt(-50)})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestBalance(t *testing.T) {
	t.Run("returns the customer's balance", func(t *testing.T) {
		svc, accountRepo, customerRepo, _, _ := newAccountService(t, false)

		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(&models.Customer{ID: 7, UserID: 3}, nil)
		accountRepo.On("GetByCustomerID", mock.Anything, uint(7)).
			Return(&models.SavingsAccount{ID: 4, CustomerID: 7, Balance: decimal.NewFromFloat(123.45)}, nil)

		balance, err := svc.Balance(context.Background(), Actor{UserID: 3, Role: domain.RoleCustomer})
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("admin has no savings account view", func(t *testing.T) {
		svc, _, _, _, _ := newAccountService(t, false)

		_, err := svc.Balance(context.Background(), Actor{UserID: 1, Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
