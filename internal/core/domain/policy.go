package domain

// Operation identifies a domain operation subject to role checks
type Operation string

const (
	OpApplyLoan      Operation = "loan.apply"
	OpRepayLoan      Operation = "loan.repay"
	OpViewOwnLoans   Operation = "loan.view_own"
	OpListLoans      Operation = "loan.list"
	OpApproveLoan    Operation = "loan.approve"
	OpRejectLoan     Operation = "loan.reject"
	OpDeposit        Operation = "account.deposit"
	OpWithdraw       Operation = "account.withdraw"
	OpViewOwnAccount Operation = "account.view_own"
	OpManageUsers    Operation = "user.manage"
	OpEditSettings   Operation = "settings.edit"
	OpApproveTx      Operation = "transaction.approve"
	OpRejectTx       Operation = "transaction.reject"
	OpListPendingTx  Operation = "transaction.list_pending"
)

// Allowed reports whether a role may perform an operation.
// Customers act only on their own loans and account; ownership itself is
// checked by the services, this table covers the role dimension.
func Allowed(role Role, op Operation) bool {
	switch op {
	case OpApplyLoan, OpRepayLoan, OpViewOwnLoans, OpDeposit, OpWithdraw, OpViewOwnAccount:
		return role == RoleCustomer
	case OpListLoans, OpApproveLoan, OpRejectLoan:
		return role == RoleStaff || role == RoleAdmin
	case OpManageUsers, OpEditSettings, OpApproveTx, OpRejectTx, OpListPendingTx:
		return role == RoleAdmin
	}
	return false
}
