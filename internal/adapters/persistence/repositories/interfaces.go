package repositories

import (
	"context"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Every repository exposes WithTx so a service can bind the whole
// read-decide-mutate unit to one database transaction.

// UserRepository defines user repository interface
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// CustomerRepository defines customer profile repository interface
type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Customer, error)
}

// AccountRepository defines savings account repository interface
type AccountRepository interface {
	WithTx(tx *gorm.DB) AccountRepository
	Create(ctx context.Context, account *models.SavingsAccount) error
	GetByCustomerID(ctx context.Context, customerID uint) (*models.SavingsAccount, error)
	// GetByCustomerIDForUpdate reads the account row under a row-level lock
	GetByCustomerIDForUpdate(ctx context.Context, customerID uint) (*models.SavingsAccount, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.SavingsAccount, error)
	Update(ctx context.Context, account *models.SavingsAccount) error
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	WithTx(tx *gorm.DB) LoanRepository
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	// GetByIDForUpdate reads the loan row under a row-level lock
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	ListByCustomerID(ctx context.Context, customerID uint) ([]*models.Loan, error)
	List(ctx context.Context, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error)
}

// RepaymentRepository defines the append-only repayment ledger interface
type RepaymentRepository interface {
	WithTx(tx *gorm.DB) RepaymentRepository
	Create(ctx context.Context, repayment *models.Repayment) error
	ListByLoanID(ctx context.Context, loanID uint) ([]*models.Repayment, error)
	TotalRepaid(ctx context.Context, loanID uint) (decimal.Decimal, error)
}

// TransactionRepository defines deposit/withdrawal request repository interface
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	// GetByIDForUpdate reads the transaction row under a row-level lock
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	ListByCustomerID(ctx context.Context, customerID uint, offset, limit int) ([]*models.Transaction, int64, error)
	ListByStatus(ctx context.Context, status domain.TxStatus, offset, limit int) ([]*models.Transaction, int64, error)
}

// SettingsRepository defines loan settings repository interface
type SettingsRepository interface {
	WithTx(tx *gorm.DB) SettingsRepository
	Get(ctx context.Context) (*models.LoanSettings, error)
	Upsert(ctx context.Context, settings *models.LoanSettings) error
}
