package services

import (
	"context"
	"errors"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettingsService handles the loan settings singleton
type SettingsService struct {
	settingsRepo repositories.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repositories.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Get returns the current loan settings
func (s *SettingsService) Get(ctx context.Context) (*models.LoanSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettingsMissing
		}
		return nil, err
	}
	return settings, nil
}

// Update sets the default interest rate (admin only). The new rate applies
// to future loan applications only; existing loans keep their snapshot.
func (s *SettingsService) Update(ctx context.Context, actor Actor, rate decimal.Decimal) (*models.LoanSettings, error) {
	if !domain.Allowed(actor.Role, domain.OpEditSettings) {
		return nil, domain.ErrForbidden
	}

	if !rate.IsPositive() {
		return nil, domain.ErrInvalidInterestRate
	}

	settings := &models.LoanSettings{DefaultInterestRate: rate}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
