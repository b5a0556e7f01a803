package repositories

import (
	"context"

	"bankhub/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// repaymentRepository implements RepaymentRepository interface.
// The ledger is append-only: rows are created, never updated or deleted.
type repaymentRepository struct {
	db *gorm.DB
}

// NewRepaymentRepository creates a new repayment repository
func NewRepaymentRepository(db *gorm.DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *repaymentRepository) WithTx(tx *gorm.DB) RepaymentRepository {
	return &repaymentRepository{db: tx}
}

// Create appends a repayment record
func (r *repaymentRepository) Create(ctx context.Context, repayment *models.Repayment) error {
	return r.db.WithContext(ctx).Create(repayment).Error
}

// ListByLoanID lists all repayments of a loan, oldest first
func (r *repaymentRepository) ListByLoanID(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC").
		Find(&repayments).Error
	return repayments, err
}

// TotalRepaid returns the sum of all repayment amounts for a loan
func (r *repaymentRepository) TotalRepaid(ctx context.Context, loanID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Repayment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ?", loanID).
		Scan(&total).Error
	return total, err
}
