package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTokenExpired      = errors.New("token expired")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrCannotDeleteAdmin = errors.New("admin accounts cannot be deleted")
	ErrCustomerNotFound  = errors.New("customer profile not found")
)

// Ledger errors
var (
	ErrAccountNotFound   = errors.New("savings account not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Loan errors
var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInvalidLoanDetails  = errors.New("loan amount and duration must be positive")
	ErrSettingsMissing     = errors.New("loan settings not configured")
	ErrInvalidInterestRate = errors.New("interest rate must be positive")
)

// Transaction workflow errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
)
