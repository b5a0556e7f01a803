package config

import (
	"log"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/core/domain"
	"bankhub/internal/pkg/password"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("Admin seeder skipped: %v", err)
	}
	if err := s.seedLoanSettings(); err != nil {
		log.Printf("Loan settings seeder skipped: %v", err)
	}

	log.Println("Database seeding completed")
	return nil
}

// seedAdminUser seeds the bootstrap admin. Registration is admin-controlled,
// so without this row nobody can create further accounts.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if s.cfg.Bank.AdminPassword == "" {
		log.Println("Skipping admin seed: BANK_ADMIN_PASSWORD not set")
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Bank.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: s.cfg.Bank.AdminUsername,
		Email:    s.cfg.Bank.AdminEmail,
		Password: hashedPassword,
		Role:     domain.RoleAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Admin user created: %s", admin.Username)
	return nil
}

// seedLoanSettings seeds the default interest rate row. Loan applications
// fail fast while this row is absent.
func (s *Seeder) seedLoanSettings() error {
	var count int64
	s.db.Model(&models.LoanSettings{}).Count(&count)
	if count > 0 {
		return nil
	}

	rate, err := decimal.NewFromString(s.cfg.Bank.DefaultInterestRate)
	if err != nil || !rate.IsPositive() {
		log.Printf("Skipping loan settings seed: invalid BANK_DEFAULT_INTEREST_RATE %q", s.cfg.Bank.DefaultInterestRate)
		return nil
	}

	settings := &models.LoanSettings{ID: 1, DefaultInterestRate: rate}
	if err := s.db.Create(settings).Error; err != nil {
		return err
	}

	log.Printf("Loan settings seeded: default interest rate %s%%", rate.String())
	return nil
}
