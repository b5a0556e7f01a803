package domain

// Role represents a user role in the system
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role belongs to the closed role set
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// LoanStatus represents the state of a loan
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanRepaid   LoanStatus = "repaid"
)

// Terminal reports whether the loan state admits no further transitions.
// Nothing leaves rejected or repaid.
func (s LoanStatus) Terminal() bool {
	return s == LoanRejected || s == LoanRepaid
}

// TxType represents the kind of ledger transaction
type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
)

// TxStatus represents the state of a deposit/withdrawal request
type TxStatus string

const (
	TxPending  TxStatus = "pending"
	TxApproved TxStatus = "approved"
	TxRejected TxStatus = "rejected"
)
