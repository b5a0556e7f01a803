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

// LoanService handles loan lifecycle business logic
type LoanService struct {
	db            *gorm.DB
	loanRepo      repositories.LoanRepository
	repaymentRepo repositories.RepaymentRepository
	customerRepo  repositories.CustomerRepository
	settingsRepo  repositories.SettingsRepository
}

// NewLoanService creates a new loan service
func NewLoanService(
	db *gorm.DB,
	loanRepo repositories.LoanRepository,
	repaymentRepo repositories.RepaymentRepository,
	customerRepo repositories.CustomerRepository,
	settingsRepo repositories.SettingsRepository,
) *LoanService {
	return &LoanService{
		db:            db,
		loanRepo:      loanRepo,
		repaymentRepo: repaymentRepo,
		customerRepo:  customerRepo,
		settingsRepo:  settingsRepo,
	}
}

// ApplyLoanInput represents loan application input
type ApplyLoanInput struct {
	Amount         decimal.Decimal `json:"amount"`
	DurationMonths int             `json:"duration_months"`
}

// Apply creates a new loan application for the acting customer.
// The interest rate is snapshotted from the current loan settings and
// never changes afterwards.
func (s *LoanService) Apply(ctx context.Context, actor Actor, input *ApplyLoanInput) (*models.Loan, error) {
	if !domain.Allowed(actor.Role, domain.OpApplyLoan) {
		return nil, domain.ErrForbidden
	}

	if !input.Amount.IsPositive() || input.DurationMonths <= 0 {
		return nil, domain.ErrInvalidLoanDetails
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettingsMissing
		}
		return nil, err
	}

	loan := &models.Loan{
		CustomerID:     customer.ID,
		Amount:         input.Amount,
		InterestRate:   settings.DefaultInterestRate,
		DurationMonths: input.DurationMonths,
		Status:         domain.LoanPending,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// Approve moves a pending loan to approved
func (s *LoanService) Approve(ctx context.Context, loanID uint, actor Actor) (*models.Loan, error) {
	return s.decide(ctx, loanID, actor, domain.OpApproveLoan, domain.LoanApproved)
}

// Reject moves a pending loan to rejected
func (s *LoanService) Reject(ctx context.Context, loanID uint, actor Actor) (*models.Loan, error) {
	return s.decide(ctx, loanID, actor, domain.OpRejectLoan, domain.LoanRejected)
}

// decide applies an approve/reject transition under a row lock.
// Only pending loans can be decided.
func (s *LoanService) decide(ctx context.Context, loanID uint, actor Actor, op domain.Operation, target domain.LoanStatus) (*models.Loan, error) {
	if !domain.Allowed(actor.Role, op) {
		return nil, domain.ErrForbidden
	}

	var loan *models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		loan, err = s.loanRepo.WithTx(tx).GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.Status != domain.LoanPending {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		loan.Status = target
		loan.ApprovedBy = &actor.UserID
		loan.ApprovedAt = &now

		return s.loanRepo.WithTx(tx).Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// RepayInput represents loan repayment input
type RepayInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// RepayResult represents the outcome of a repayment
type RepayResult struct {
	Repayment   *models.Repayment `json:"repayment"`
	LoanStatus  domain.LoanStatus `json:"loan_status"`
	TotalRepaid decimal.Decimal   `json:"total_repaid"`
	Outstanding decimal.Decimal   `json:"outstanding"`
}

// Repay appends a repayment to the loan's ledger and settles the loan when
// the ledger sum reaches principal * (1 + rate/100). The principal column
// is never decremented.
func (s *LoanService) Repay(ctx context.Context, loanID uint, actor Actor, input *RepayInput) (*RepayResult, error) {
	if !domain.Allowed(actor.Role, domain.OpRepayLoan) {
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

	var result *RepayResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		loanRepo := s.loanRepo.WithTx(tx)
		repaymentRepo := s.repaymentRepo.WithTx(tx)

		loan, err := loanRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.CustomerID != customer.ID {
			return domain.ErrForbidden
		}

		if loan.Status != domain.LoanApproved {
			return domain.ErrInvalidTransition
		}

		repayment := &models.Repayment{
			LoanID:     loan.ID,
			CustomerID: customer.ID,
			Amount:     input.Amount,
			Method:     input.Method,
			Reference:  reference,
		}
		if err := repaymentRepo.Create(ctx, repayment); err != nil {
			return err
		}

		total, err := repaymentRepo.TotalRepaid(ctx, loan.ID)
		if err != nil {
			return err
		}

		if total.GreaterThanOrEqual(loan.AmountDue()) {
			loan.Status = domain.LoanRepaid
			if err := loanRepo.Update(ctx, loan); err != nil {
				return err
			}
		}

		result = &RepayResult{
			Repayment:   repayment,
			LoanStatus:  loan.Status,
			TotalRepaid: total,
			Outstanding: loan.Outstanding(total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByID returns a loan. Staff and admin see any loan; a customer only
// sees their own, anything else reads as not found.
func (s *LoanService) GetByID(ctx context.Context, loanID uint, actor Actor) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if actor.Role == domain.RoleCustomer {
		customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
		if err != nil || loan.CustomerID != customer.ID {
			return nil, domain.ErrLoanNotFound
		}
	}

	return loan, nil
}

// Repayments returns the repayment ledger of a loan, with the same
// visibility rules as GetByID
func (s *LoanService) Repayments(ctx context.Context, loanID uint, actor Actor) ([]*models.Repayment, error) {
	if _, err := s.GetByID(ctx, loanID, actor); err != nil {
		return nil, err
	}
	return s.repaymentRepo.ListByLoanID(ctx, loanID)
}

// ListByCustomer lists the acting customer's own loans
func (s *LoanService) ListByCustomer(ctx context.Context, actor Actor) ([]*models.Loan, error) {
	if !domain.Allowed(actor.Role, domain.OpViewOwnLoans) {
		return nil, domain.ErrForbidden
	}

	customer, err := s.customerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	return s.loanRepo.ListByCustomerID(ctx, customer.ID)
}

// ListInput represents loan listing input for staff/admin
type ListInput struct {
	Status domain.LoanStatus
	Offset int
	Limit  int
}

// List lists loans with optional status filter (staff/admin)
func (s *LoanService) List(ctx context.Context, actor Actor, input *ListInput) ([]*models.Loan, int64, error) {
	if !domain.Allowed(actor.Role, domain.OpListLoans) {
		return nil, 0, domain.ErrForbidden
	}

	if input.Status != "" {
		switch input.Status {
		case domain.LoanPending, domain.LoanApproved, domain.LoanRejected, domain.LoanRepaid:
		default:
			return nil, 0, domain.ErrInvalidInput
		}
	}

	return s.loanRepo.List(ctx, input.Status, input.Offset, input.Limit)
}
