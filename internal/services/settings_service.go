package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
)

// settingsService handles per-user trading settings.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetSettings returns the user's settings, materializing the defaults on
// first access.
func (s *settingsService) GetSettings(userID string) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = models.Settings{
		UserID:          userID,
		BrokerageFee:    decimal.Zero,
		EmolumentRate:   models.DefaultEmolumentRate,
		ExerciseFeeRate: models.DefaultExerciseFeeRate,
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings applies the provided fee parameters.
func (s *settingsService) UpdateSettings(userID string, brokerageFee, emolumentRate, exerciseFeeRate *decimal.Decimal) (*models.Settings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if brokerageFee != nil {
		updates["brokerage_fee"] = *brokerageFee
	}
	if emolumentRate != nil {
		updates["emolument_rate"] = *emolumentRate
	}
	if exerciseFeeRate != nil {
		updates["exercise_fee_rate"] = *exerciseFeeRate
	}

	if len(updates) > 0 {
		if err := s.db.Model(settings).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", settings.ID).First(settings).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return settings, nil
}
