package services

import (
	"context"
	"errors"
	"time"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/core/domain"

	"gorm.io/gorm"
)

// TransactionService handles the admin approval workflow for pending
// deposit/withdrawal requests
type TransactionService struct {
	db              *gorm.DB
	transactionRepo repositories.TransactionRepository
	accountRepo     repositories.AccountRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	db *gorm.DB,
	transactionRepo repositories.TransactionRepository,
	accountRepo repositories.AccountRepository,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// Approve settles a pending transaction. Withdrawals are checked against the
// balance at approval time and fail with ErrInsufficientFunds without
// touching the ledger; the whole unit commits or rolls back atomically.
func (s *TransactionService) Approve(ctx context.Context, txID uint, actor Actor) (*models.Transaction, error) {
	if !domain.Allowed(actor.Role, domain.OpApproveTx) {
		return nil, domain.ErrForbidden
	}

	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transactionRepo := s.transactionRepo.WithTx(tx)
		accountRepo := s.accountRepo.WithTx(tx)

		var err error
		transaction, err = transactionRepo.GetByIDForUpdate(ctx, txID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}

		if transaction.Status != domain.TxPending {
			return domain.ErrInvalidTransition
		}

		account, err := accountRepo.GetByIDForUpdate(ctx, transaction.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}

		switch transaction.Type {
		case domain.TxWithdrawal:
			if transaction.Amount.GreaterThan(account.Balance) {
				return domain.ErrInsufficientFunds
			}
			account.Balance = account.Balance.Sub(transaction.Amount)
		case domain.TxDeposit:
			account.Balance = account.Balance.Add(transaction.Amount)
		default:
			return domain.ErrInvalidInput
		}

		if err := accountRepo.Update(ctx, account); err != nil {
			return err
		}

		now := time.Now()
		transaction.Status = domain.TxApproved
		transaction.ApprovedBy = &actor.UserID
		transaction.ApprovedAt = &now

		return transactionRepo.Update(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Reject declines a pending transaction with no ledger effect
func (s *TransactionService) Reject(ctx context.Context, txID uint, actor Actor) (*models.Transaction, error) {
	if !domain.Allowed(actor.Role, domain.OpRejectTx) {
		return nil, domain.ErrForbidden
	}

	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transactionRepo := s.transactionRepo.WithTx(tx)

		var err error
		transaction, err = transactionRepo.GetByIDForUpdate(ctx, txID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}

		if transaction.Status != domain.TxPending {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		transaction.Status = domain.TxRejected
		transaction.ApprovedBy = &actor.UserID
		transaction.ApprovedAt = &now

		return transactionRepo.Update(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// ListPending lists transactions awaiting an admin decision
func (s *TransactionService) ListPending(ctx context.Context, actor Actor, offset, limit int) ([]*models.Transaction, int64, error) {
	if !domain.Allowed(actor.Role, domain.OpListPendingTx) {
		return nil, 0, domain.ErrForbidden
	}

	return s.transactionRepo.ListByStatus(ctx, domain.TxPending, offset, limit)
}
