package repositories

import (
	"context"

	"bankhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new savings account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *accountRepository) WithTx(tx *gorm.DB) AccountRepository {
	return &accountRepository{db: tx}
}

// Create creates a new savings account
func (r *accountRepository) Create(ctx context.Context, account *models.SavingsAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByCustomerID gets the savings account of a customer
func (r *accountRepository) GetByCustomerID(ctx context.Context, customerID uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByCustomerIDForUpdate gets the savings account under SELECT ... FOR UPDATE
// so concurrent balance mutations against the same row serialize.
func (r *accountRepository) GetByCustomerIDForUpdate(ctx context.Context, customerID uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByIDForUpdate gets the savings account by ID under a row-level lock
func (r *accountRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update updates a savings account
func (r *accountRepository) Update(ctx context.Context, account *models.SavingsAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}
