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
	"gorm.io/gorm"
)

func newLoanService(t *testing.T) (*LoanService, *mockLoanRepo, *mockRepaymentRepo, *mockCustomerRepo, *mockSettingsRepo, sqlmock.Sqlmock) {
	db, sqlMock := newTestDB(t)

	loanRepo := new(mockLoanRepo)
	repaymentRepo := new(mockRepaymentRepo)
	customerRepo := new(mockCustomerRepo)
	settingsRepo := new(mockSettingsRepo)

	svc := NewLoanService(db, loanRepo, repaymentRepo, customerRepo, settingsRepo)
	return svc, loanRepo, repaymentRepo, customerRepo, settingsRepo, sqlMock
}

func TestLoanApply(t *testing.T) {
	customer := &models.Customer{ID: 7, UserID: 3}
	settings := &models.LoanSettings{ID: 1, DefaultInterestRate: decimal.NewFromFloat(5.5)}

	t.Run("snapshots current interest rate", func(t *testing.T) {
		svc, loanRepo, _, customerRepo, settingsRepo, _ := newLoanService(t)

		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		settingsRepo.On("Get", mock.Anything).Return(settings, nil)
		loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Loan")).Return(nil)

		loan, err := svc.Apply(context.Background(), Actor{UserID: 3, Role: domain.RoleCustomer}, &ApplyLoanInput{
			Amount:         decimal.NewFromInt(5000),
			DurationMonths: 12,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LoanPending, loan.Status)
		assert.Equal(t, uint(7), loan.CustomerID)
		assert.True(t, loan.InterestRate.Equal(decimal.NewFromFloat(5.5)))
		loanRepo.AssertExpectations(t)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, err := svc.Apply(context.Background(), Actor{UserID: 3, Role: domain.RoleCustomer}, &ApplyLoanInput{
			Amount:         decimal.Zero,
			DurationMonths: 12,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLoanDetails)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, err := svc.Apply(context.Background(), Actor{UserID: 3, Role: domain.RoleCustomer}, &ApplyLoanInput{
			Amount:         decimal.NewFromInt(5000),
			DurationMonths: 0,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLoanDetails)
	})

	t.Run("staff cannot apply", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, err := svc.Apply(context.Background(), Actor{UserID: 3, Role: domain.RoleStaff}, &ApplyLoanInput{
			Amount:         decimal.NewFromInt(5000),
			DurationMonths: 12,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("fails fast when settings row is missing", func(t *testing.T) {
		svc, _, _, customerRepo, settingsRepo, _ := newLoanService(t)

		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		settingsRepo.On("Get", mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Apply(context.Background(), Actor{UserID: 3, Role: domain.RoleCustomer}, &ApplyLoanInput{
			Amount:         decimal.NewFromInt(5000),
			DurationMonths: 12,
		})
		assert.ErrorIs(t, err, domain.ErrSettingsMissing)
	})
}

func TestLoanDecide(t *testing.T) {
	staff := Actor{UserID: 9, Role: domain.RoleStaff}

	t.Run("approve stamps approver and commits", func(t *testing.T) {
		svc, loanRepo, _, _, _, sqlMock := newLoanService(t)

		loan := &models.Loan{ID: 1, CustomerID: 7, Status: domain.LoanPending}
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		loanRepo.On("Update", mock.Anything, loan).Return(nil)
		sqlMock.ExpectCommit()

		got, err := svc.Approve(context.Background(), 1, staff)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanApproved, got.Status)
		require.NotNil(t, got.ApprovedBy)
		assert.Equal(t, uint(9), *got.ApprovedBy)
		assert.NotNil(t, got.ApprovedAt)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("reject only works on pending loans", func(t *testing.T) {
		svc, loanRepo, _, _, _, sqlMock := newLoanService(t)

		loan := &models.Loan{ID: 2, Status: domain.LoanApproved}
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(2)).Return(loan, nil)
		sqlMock.ExpectRollback()

		_, err := svc.Reject(context.Background(), 2, staff)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("customer cannot decide", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, err := svc.Approve(context.Background(), 1, Actor{UserID: 3, Role: domain.RoleCustomer})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing loan reads as not found", func(t *testing.T) {
		svc, loanRepo, _, _, _, sqlMock := newLoanService(t)

		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
		sqlMock.ExpectRollback()

		_, err := svc.Approve(context.Background(), 99, staff)
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	})
}

func TestLoanRepay(t *testing.T) {
	customer := &models.Customer{ID: 7, UserID: 3}
	actor := Actor{UserID: 3, Role: domain.RoleCustomer}

	// 5000 at 5.5% means the loan settles once the ledger reaches 5275.00
	newApprovedLoan := func() *models.Loan {
		return &models.Loan{
			ID:           1,
			CustomerID:   7,
			Amount:       decimal.NewFromInt(5000),
			InterestRate: decimal.NewFromFloat(5.5),
			Status:       domain.LoanApproved,
		}
	}

	t.Run("partial repayment keeps loan approved", func(t *testing.T) {
		svc, loanRepo, repaymentRepo, customerRepo, _, sqlMock := newLoanService(t)

		loan := newApprovedLoan()
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		repaymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Repayment")).Return(nil)
		repaymentRepo.On("TotalRepaid", mock.Anything, uint(1)).Return(decimal.NewFromInt(2000), nil)
		sqlMock.ExpectCommit()

		result, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromInt(2000)})
		require.NoError(t, err)
		assert.Equal(t, domain.LoanApproved, result.LoanStatus)
		assert.True(t, result.TotalRepaid.Equal(decimal.NewFromInt(2000)))
		assert.True(t, result.Outstanding.Equal(decimal.NewFromInt(3275)))
		loanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("final repayment settles loan at amount due", func(t *testing.T) {
		svc, loanRepo, repaymentRepo, customerRepo, _, sqlMock := newLoanService(t)

		loan := newApprovedLoan()
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		repaymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Repayment")).Return(nil)
		repaymentRepo.On("TotalRepaid", mock.Anything, uint(1)).Return(decimal.NewFromFloat(5275), nil)
		loanRepo.On("Update", mock.Anything, loan).Return(nil)
		sqlMock.ExpectCommit()

		result, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromFloat(3275)})
		require.NoError(t, err)
		assert.Equal(t, domain.LoanRepaid, result.LoanStatus)
		assert.True(t, result.Outstanding.IsZero())
		loanRepo.AssertExpectations(t)
	})

	t.Run("overpayment floors outstanding at zero", func(t *testing.T) {
		svc, loanRepo, repaymentRepo, customerRepo, _, sqlMock := newLoanService(t)

		loan := newApprovedLoan()
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		repaymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Repayment")).Return(nil)
		repaymentRepo.On("TotalRepaid", mock.Anything, uint(1)).Return(decimal.NewFromInt(6000), nil)
		loanRepo.On("Update", mock.Anything, loan).Return(nil)
		sqlMock.ExpectCommit()

		result, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromInt(6000)})
		require.NoError(t, err)
		assert.Equal(t, domain.LoanRepaid, result.LoanStatus)
		assert.True(t, result.Outstanding.IsZero())
	})

	t.Run("cannot repay someone else's loan", func(t *testing.T) {
		svc, loanRepo, _, customerRepo, _, sqlMock := newLoanService(t)

		loan := newApprovedLoan()
		loan.CustomerID = 42
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		sqlMock.ExpectRollback()

		_, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromInt(100)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cannot repay a pending loan", func(t *testing.T) {
		svc, loanRepo, _, customerRepo, _, sqlMock := newLoanService(t)

		loan := newApprovedLoan()
		loan.Status = domain.LoanPending
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		sqlMock.ExpectRollback()

		_, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromInt(100)})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromInt(-5)})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("generates a reference when none given", func(t *testing.T) {
		svc, loanRepo, repaymentRepo, customerRepo, _, sqlMock := newLoanService(t)

		loan := newApprovedLoan()
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(customer, nil)
		sqlMock.ExpectBegin()
		loanRepo.On("GetByIDForUpdate", mock.Anything, uint(1)).Return(loan, nil)
		repaymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Repayment) bool {
			return r.Reference != ""
		})).Return(nil)
		repaymentRepo.On("TotalRepaid", mock.Anything, uint(1)).Return(decimal.NewFromInt(100), nil)
		sqlMock.ExpectCommit()

		_, err := svc.Repay(context.Background(), 1, actor, &RepayInput{Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		repaymentRepo.AssertExpectations(t)
	})
}

func TestLoanVisibility(t *testing.T) {
	loan := &models.Loan{ID: 1, CustomerID: 7, Status: domain.LoanApproved}

	t.Run("customer sees own loan", func(t *testing.T) {
		svc, loanRepo, _, customerRepo, _, _ := newLoanService(t)

		loanRepo.On("GetByID", mock.Anything, uint(1)).Return(loan, nil)
		customerRepo.On("GetByUserID", mock.Anything, uint(3)).Return(&models.Customer{ID: 7, UserID: 3}, nil)

		got, err := svc.GetByID(context.Background(), 1, Actor{UserID: 3, Role: domain.RoleCustomer})
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})

	t.Run("foreign loan reads as not found", func(t *testing.T) {
		svc, loanRepo, _, customerRepo, _, _ := newLoanService(t)

		loanRepo.On("GetByID", mock.Anything, uint(1)).Return(loan, nil)
		customerRepo.On("GetByUserID", mock.Anything, uint(5)).Return(&models.Customer{ID: 8, UserID: 5}, nil)

		_, err := svc.GetByID(context.Background(), 1, Actor{UserID: 5, Role: domain.RoleCustomer})
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	})

	t.Run("staff sees any loan", func(t *testing.T) {
		svc, loanRepo, _, _, _, _ := newLoanService(t)

		loanRepo.On("GetByID", mock.Anything, uint(1)).Return(loan, nil)

		got, err := svc.GetByID(context.Background(), 1, Actor{UserID: 9, Role: domain.RoleStaff})
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})
}

func TestLoanList(t *testing.T) {
	t.Run("rejects unknown status filter", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, _, err := svc.List(context.Background(), Actor{UserID: 9, Role: domain.RoleStaff}, &ListInput{Status: "bogus"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("customer cannot list all loans", func(t *testing.T) {
		svc, _, _, _, _, _ := newLoanService(t)

		_, _, err := svc.List(context.Background(), Actor{UserID: 3, Role: domain.RoleCustomer}, &ListInput{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("passes status filter through", func(t *testing.T) {
		svc, loanRepo, _, _, _, _ := newLoanService(t)

		loanRepo.On("List", mock.Anything, domain.LoanPending, 0, 20).
			Return([]*models.Loan{{ID: 1}}, int64(1), nil)

		loans, total, err := svc.List(context.Background(), Actor{UserID: 9, Role: domain.RoleAdmin}, &ListInput{
			Status: domain.LoanPending,
			Limit:  20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, loans, 1)
	})
}
