package services

import (
	"context"
	"testing"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm DB backed by sqlmock. Services only use it for
// transaction demarcation, so tests just expect Begin/Commit or
// Begin/Rollback around the mocked repository calls.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, sqlMock
}

// ============================================================
// Repository mocks. WithTx returns the mock itself so expectations
// set on the mock also cover calls made inside a transaction.
// ============================================================

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) WithTx(tx *gorm.DB) repositories.UserRepository { return m }

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockRefreshTokenRepo struct{ mock.Mock }

func (m *mockRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) WithTx(tx *gorm.DB) repositories.CustomerRepository { return m }

func (m *mockCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerRepo) GetByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

type mockLoanRepo struct{ mock.Mock }

func (m *mockLoanRepo) WithTx(tx *gorm.DB) repositories.LoanRepository { return m }

func (m *mockLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *mockLoanRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *mockLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *mockLoanRepo) ListByCustomerID(ctx context.Context, customerID uint) ([]*models.Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Loan), args.Error(1)
}

func (m *mockLoanRepo) List(ctx context.Context, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Loan), args.Get(1).(int64), args.Error(2)
}

type mockRepaymentRepo struct{ mock.Mock }

func (m *mockRepaymentRepo) WithTx(tx *gorm.DB) repositories.RepaymentRepository { return m }

func (m *mockRepaymentRepo) Create(ctx context.Context, repayment *models.Repayment) error {
	return m.Called(ctx, repayment).Error(0)
}

func (m *mockRepaymentRepo) ListByLoanID(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Repayment), args.Error(1)
}

func (m *mockRepaymentRepo) TotalRepaid(ctx context.Context, loanID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) WithTx(tx *gorm.DB) repositories.AccountRepository { return m }

func (m *mockAccountRepo) Create(ctx context.Context, account *models.SavingsAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) GetByCustomerID(ctx context.Context, customerID uint) (*models.SavingsAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavingsAccount), args.Error(1)
}

func (m *mockAccountRepo) GetByCustomerIDForUpdate(ctx context.Context, customerID uint) (*models.SavingsAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavingsAccount), args.Error(1)
}

func (m *mockAccountRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.SavingsAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavingsAccount), args.Error(1)
}

func (m *mockAccountRepo) Update(ctx context.Context, account *models.SavingsAccount) error {
	return m.Called(ctx, account).Error(0)
}

type mockTransactionRepo struct{ mock.Mock }

func (m *mockTransactionRepo) WithTx(tx *gorm.DB) repositories.TransactionRepository { return m }

func (m *mockTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	return m.Called(ctx, transaction).Error(0)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) Update(ctx context.Context, transaction *models.Transaction) error {
	return m.Called(ctx, transaction).Error(0)
}

func (m *mockTransactionRepo) ListByCustomerID(ctx context.Context, customerID uint, offset, limit int) ([]*models.Transaction, int64, error) {
	args := m.Called(ctx, customerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockTransactionRepo) ListByStatus(ctx context.Context, status domain.TxStatus, offset, limit int) ([]*models.Transaction, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Transaction), args.Get(1).(int64), args.Error(2)
}

type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) WithTx(tx *gorm.DB) repositories.SettingsRepository { return m }

func (m *mockSettingsRepo) Get(ctx context.Context) (*models.LoanSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoanSettings), args.Error(1)
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings *models.LoanSettings) error {
	return m.Called(ctx, settings).Error(0)
}
