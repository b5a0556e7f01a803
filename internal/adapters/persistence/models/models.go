package models

import (
	"time"

	"bankhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Users & Profiles
// ============================================================

// User represents the users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      domain.Role    `gorm:"size:20;not null;default:'customer'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer *Customer `gorm:"foreignKey:UserID" json:"customer,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID         uint        `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	CustomerID *uint       `json:"customer_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Customer != nil {
		resp.CustomerID = &u.Customer.ID
	}
	return resp
}

// Customer represents the 1:1 customer profile of a user
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User           *User           `gorm:"foreignKey:UserID" json:"-"`
	SavingsAccount *SavingsAccount `gorm:"foreignKey:CustomerID" json:"savings_account,omitempty"`
	Loans          []Loan          `gorm:"foreignKey:CustomerID" json:"loans,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Ledger
// ============================================================

// SavingsAccount represents the savings_accounts table.
// Balance never goes below zero; every mutation happens inside the same
// database transaction as the operation that triggered it.
type SavingsAccount struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"uniqueIndex;not null" json:"customer_id"`
	Balance    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (SavingsAccount) TableName() string {
	return "savings_accounts"
}

// Transaction represents a deposit or withdrawal request against an account
type Transaction struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"index;not null" json:"customer_id"`
	AccountID  uint            `gorm:"index;not null" json:"account_id"`
	Type       domain.TxType   `gorm:"size:20;not null" json:"type"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status     domain.TxStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Reference  string          `gorm:"size:100" json:"reference"`
	ApprovedBy *uint           `json:"approved_by"`
	ApprovedAt *time.Time      `json:"approved_at"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Account  *SavingsAccount `gorm:"foreignKey:AccountID" json:"-"`
	Approver *User           `gorm:"foreignKey:ApprovedBy" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// ============================================================
// Loans
// ============================================================

// Loan represents the loans table. Amount is the original principal and is
// never decremented; payoff is decided against the repayment ledger sum.
type Loan struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	CustomerID     uint              `gorm:"index;not null" json:"customer_id"`
	Amount         decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	InterestRate   decimal.Decimal   `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	DurationMonths int               `gorm:"not null" json:"duration_months"`
	Status         domain.LoanStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy     *uint             `json:"approved_by"`
	ApprovedAt     *time.Time        `json:"approved_at"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Customer   *Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	Repayments []Repayment `gorm:"foreignKey:LoanID" json:"repayments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// AmountDue returns principal * (1 + rate/100), the total repayment threshold
func (l *Loan) AmountDue() decimal.Decimal {
	rate := l.InterestRate.Div(decimal.NewFromInt(100))
	return l.Amount.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
}

// Outstanding returns the amount still owed given the repayment ledger sum,
// floored at zero
func (l *Loan) Outstanding(totalRepaid decimal.Decimal) decimal.Decimal {
	out := l.AmountDue().Sub(totalRepaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// LoanResponse DTO
type LoanResponse struct {
	ID             uint              `json:"id"`
	CustomerID     uint              `json:"customer_id"`
	Amount         decimal.Decimal   `json:"amount"`
	InterestRate   decimal.Decimal   `json:"interest_rate"`
	DurationMonths int               `json:"duration_months"`
	Status         domain.LoanStatus `json:"status"`
	AmountDue      decimal.Decimal   `json:"amount_due"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	return &LoanResponse{
		ID:             l.ID,
		CustomerID:     l.CustomerID,
		Amount:         l.Amount,
		InterestRate:   l.InterestRate,
		DurationMonths: l.DurationMonths,
		Status:         l.Status,
		AmountDue:      l.AmountDue(),
		CreatedAt:      l.CreatedAt,
	}
}

// Repayment represents one immutable repayment record against a loan
type Repayment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	LoanID     uint            `gorm:"index;not null" json:"loan_id"`
	CustomerID uint            `gorm:"index;not null" json:"customer_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method     string          `gorm:"size:50" json:"method"`
	Reference  string          `gorm:"size:100" json:"reference"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Loan *Loan `gorm:"foreignKey:LoanID" json:"-"`
}

func (Repayment) TableName() string {
	return "repayments"
}

// ============================================================
// Settings
// ============================================================

// LoanSettings is the single-row configuration read at loan application
// time. Loan application fails fast when the row is absent.
type LoanSettings struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	DefaultInterestRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"default_interest_rate"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanSettings) TableName() string {
	return "loan_settings"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Customer{},
		&SavingsAccount{},
		&Transaction{},
		&Loan{},
		&Repayment{},
		&LoanSettings{},
	)
}
