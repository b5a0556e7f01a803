package services

import (
	"context"
	"errors"
	"time"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService handles savings account ledger business logic
type AccountService struct {
	db              *gorm.DB
	accountRepo     repositories.AccountRepository
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	// gateDeposits routes deposits through the approval workflow instead
	// of settling them immediately
	gateDeposits bool
}

// NewAccountService creates a new account service
func NewAccountService(
	db *gorm.DB,
	accountRepo repositories.AccountRepository,
	customerRepo repositories.CustomerRepository,
	transactionRepo repositories.TransactionRepository,
	gateDeposits bool,
) *AccountService {
	return &AccountService{
		db:              db,
		accountRepo:     accountRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		gateDeposits:    gateDeposits,
	}
}

// ChargeInput represents deposit/withdrawal input
type ChargeInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// ChargeResult represents the outcome of a deposit or withdrawal request
type ChargeResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

// Deposit credits the acting customer's account. By default the deposit
// settles immediately; with gated deposits it only files a pending request
// and the ledger is untouched until an admin approves it.
func (s *AccountService) Deposit(ctx context.Context, actor Actor, input *ChargeInput) (*ChargeResult, error) {
	if !domain.Allowed(actor.Role, domain.OpDeposit) {
		return nil, domain.ErrForbidden
	}

	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	if s.gateDeposits {
		return s.requestPending(ctx, customer.ID, domain.TxDeposit, input.Amount, reference)
	}

	var result *ChargeResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		accountRepo := s.accountRepo.WithTx(tx)

		account, err := accountRepo.GetByCustomerIDForUpdate(ctx, customer.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}

		account.Balance = account.Balance.Add(input.Amount)
		if err := accountRepo.Update(ctx, account); err != nil {
			return err
		}

		now := time.Now()
		transaction := &models.Transaction{
			CustomerID: customer.ID,
			AccountID:  account.ID,
			Type:       domain.TxDeposit,
			Amount:     input.Amount,
			Status:     domain.TxApproved,
			Reference:  reference,
			ApprovedAt: &now,
		}
		if err := s.transactionRepo.WithTx(tx).Create(ctx, transaction); err != nil {
			return err
		}

		result = &ChargeResult{Transaction: transaction, Balance: account.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RequestWithdrawal files a pending withdrawal request. The ledger is not
// touched until an admin approves the request; the balance check happens at
// approval time.
func (s *AccountService) RequestWithdrawal(ctx context.Context, actor Actor, input *ChargeInput) (*ChargeResult, error) {
	if !domain.Allowed(actor.Role, domain.OpWithdraw) {
		return nil, domain.ErrForbidden
	}

	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	return s.requestPending(ctx, customer.ID, domain.TxWithdrawal, input.Amount, reference)
}

// requestPending files a pending transaction with no ledger effect
func (s *AccountService) requestPending(ctx context.Context, customerID uint, txType domain.TxType, amount decimal.Decimal, reference string) (*ChargeResult, error) {
	account, err := s.accountRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	transaction := &models.Transaction{
		CustomerID: customerID,
		AccountID:  account.ID,
		Type:       txType,
		Amount:     amount,
		Status:     domain.TxPending,
		Reference:  reference,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	return &ChargeResult{Transaction: transaction, Balance: account.Balance}, nil
}

// Balance returns the acting customer's balance
func (s *AccountService) Balance(ctx context.Context, actor Actor) (decimal.Decimal, error) {
	if !domain.Allowed(actor.Role, domain.OpViewOwnAccount) {
		return decimal.Zero, domain.ErrForbidden
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, domain.ErrCustomerNotFound
		}
		return decimal.Zero, err
	}

	account, err := s.accountRepo.GetByCustomerID(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// Statement lists the acting customer's transaction history
func (s *AccountService) Statement(ctx context.Context, actor Actor, offset, limit int) ([]*models.Transaction, int64, error) {
	if !domain.Allowed(actor.Role, domain.OpViewOwnAccount) {
		return nil, 0, domain.ErrForbidden
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrCustomerNotFound
		}
		return nil, 0, err
	}

	return s.transactionRepo.ListByCustomerID(ctx, customer.ID, offset, limit)
}
