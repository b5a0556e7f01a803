package services

import (
	"context"
	"errors"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService aggregates read-only statistics per role
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// CustomerDashboardData represents the customer dashboard
type CustomerDashboardData struct {
	Balance            decimal.Decimal        `json:"balance"`
	Loans              []*models.LoanResponse `json:"loans"`
	RecentTransactions []*models.Transaction  `json:"recent_transactions"`
}

// StaffDashboardData represents the staff dashboard
type StaffDashboardData struct {
	PendingLoans  int64           `json:"pending_loans"`
	ApprovedLoans int64           `json:"approved_loans"`
	RejectedLoans int64           `json:"rejected_loans"`
	RepaidLoans   int64           `json:"repaid_loans"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Queue         []*models.Loan  `json:"queue"`
}

// AdminDashboardData represents the admin dashboard
type AdminDashboardData struct {
	TotalUsers          int64           `json:"total_users"`
	TotalCustomers      int64           `json:"total_customers"`
	TotalStaff          int64           `json:"total_staff"`
	TotalAdmins         int64           `json:"total_admins"`
	TotalLoans          int64           `json:"total_loans"`
	PendingLoans        int64           `json:"pending_loans"`
	ApprovedLoanAmount  decimal.Decimal `json:"approved_loan_amount"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	PendingTransactions int64           `json:"pending_transactions"`
}

// GetCustomerDashboard returns the dashboard for a customer user
func (s *DashboardService) GetCustomerDashboard(ctx context.Context, userID uint) (*CustomerDashboardData, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	data := &CustomerDashboardData{Balance: decimal.Zero}

	var account models.SavingsAccount
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customer.ID).First(&account).Error; err == nil {
		data.Balance = account.Balance
	}

	var loans []*models.Loan
	s.db.WithContext(ctx).Where("customer_id = ?", customer.ID).Order("created_at DESC").Find(&loans)
	data.Loans = make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		data.Loans[i] = loan.ToResponse()
	}

	s.db.WithContext(ctx).
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&data.RecentTransactions)

	return data, nil
}

// GetStaffDashboard returns the loan review queue and counts
func (s *DashboardService) GetStaffDashboard(ctx context.Context) (*StaffDashboardData, error) {
	data := &StaffDashboardData{}

	loanCounts := map[domain.LoanStatus]*int64{
		domain.LoanPending:  &data.PendingLoans,
		domain.LoanApproved: &data.ApprovedLoans,
		domain.LoanRejected: &data.RejectedLoans,
		domain.LoanRepaid:   &data.RepaidLoans,
	}
	for status, dest := range loanCounts {
		s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", status).Count(dest)
	}

	s.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", domain.LoanPending).
		Scan(&data.PendingAmount)

	err := s.db.WithContext(ctx).
		Where("status = ?", domain.LoanPending).
		Order("created_at ASC").
		Limit(10).
		Find(&data.Queue).Error

	return data, err
}

// GetAdminDashboard returns system-wide statistics
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	s.db.WithContext(ctx).Model(&models.User{}).Count(&data.TotalUsers)
	s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", domain.RoleCustomer).Count(&data.TotalCustomers)
	s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", domain.RoleStaff).Count(&data.TotalStaff)
	s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&data.TotalAdmins)

	s.db.WithContext(ctx).Model(&models.Loan{}).Count(&data.TotalLoans)
	s.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", domain.LoanPending).Count(&data.PendingLoans)
	s.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", domain.LoanApproved).
		Scan(&data.ApprovedLoanAmount)

	s.db.WithContext(ctx).
		Model(&models.SavingsAccount{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&data.TotalBalance)

	s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("status = ?", domain.TxPending).
		Count(&data.PendingTransactions)

	return data, nil
}
