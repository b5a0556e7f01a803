package services

import (
	"context"
	"errors"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/core/domain"
	"bankhub/internal/pkg/password"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User service errors
var (
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// UserService handles user management business logic. Account creation is
// admin-controlled: there is no public registration.
type UserService struct {
	db           *gorm.DB
	userRepo     repositories.UserRepository
	customerRepo repositories.CustomerRepository
	accountRepo  repositories.AccountRepository
}

// NewUserService creates a new user service
func NewUserService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	customerRepo repositories.CustomerRepository,
	accountRepo repositories.AccountRepository,
) *UserService {
	return &UserService{
		db:           db,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
	}
}

// CreateUserInput represents user creation input
type CreateUserInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// CreateUser creates a new user (admin only). Creating a customer also
// creates the customer profile and a zero-balance savings account in the
// same transaction.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input *CreateUserInput) (*models.User, error) {
	if !domain.Allowed(actor.Role, domain.OpManageUsers) {
		return nil, domain.ErrForbidden
	}

	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if input.Username == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if !password.Validate(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     input.Role,
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		if user.Role != domain.RoleCustomer {
			return nil
		}

		customer := &models.Customer{UserID: user.ID}
		if err := s.customerRepo.WithTx(tx).Create(ctx, customer); err != nil {
			return err
		}

		account := &models.SavingsAccount{
			CustomerID: customer.ID,
			Balance:    decimal.Zero,
		}
		if err := s.accountRepo.WithTx(tx).Create(ctx, account); err != nil {
			return err
		}

		user.Customer = customer
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

// SetRole changes a user's role (admin only, never one's own)
func (s *UserService) SetRole(ctx context.Context, actor Actor, userID uint, role domain.Role) (*models.User, error) {
	if !domain.Allowed(actor.Role, domain.OpManageUsers) {
		return nil, domain.ErrForbidden
	}

	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if userID == actor.UserID {
		return nil, ErrCannotChangeOwnRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser soft deletes a user (admin only). Admin accounts can never be
// deleted.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, userID uint) error {
	if !domain.Allowed(actor.Role, domain.OpManageUsers) {
		return domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.Role == domain.RoleAdmin {
		return domain.ErrCannotDeleteAdmin
	}

	return s.userRepo.Delete(ctx, userID)
}

// ListUsers lists users with pagination (admin only)
func (s *UserService) ListUsers(ctx context.Context, actor Actor, offset, limit int) ([]*models.User, int64, error) {
	if !domain.Allowed(actor.Role, domain.OpManageUsers) {
		return nil, 0, domain.ErrForbidden
	}

	return s.userRepo.List(ctx, offset, limit)
}

// GetUserByID gets a user by ID (admin only)
func (s *UserService) GetUserByID(ctx context.Context, actor Actor, userID uint) (*models.User, error) {
	if !domain.Allowed(actor.Role, domain.OpManageUsers) {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetProfile returns the acting user's own record
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword changes the acting user's own password
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if !password.Validate(newPassword) {
		return domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(oldPassword, user.Password) {
		return ErrOldPasswordWrong
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}
