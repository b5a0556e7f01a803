package repositories

import (
	"context"

	"bankhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRepository implements SettingsRepository interface.
// loan_settings holds a single row with a fixed primary key.
type settingsRepository struct {
	db *gorm.DB
}

const settingsRowID = 1

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *settingsRepository) WithTx(tx *gorm.DB) SettingsRepository {
	return &settingsRepository{db: tx}
}

// Get returns the settings row
func (r *settingsRepository) Get(ctx context.Context) (*models.LoanSettings, error) {
	var settings models.LoanSettings
	err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert creates or updates the settings row
func (r *settingsRepository) Upsert(ctx context.Context, settings *models.LoanSettings) error {
	settings.ID = settingsRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"default_interest_rate", "updated_at"}),
		}).
		Create(settings).Error
}
