package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/valuation"
)

// exerciseService handles option exercise operations.
type exerciseService struct {
	db       *gorm.DB
	settings SettingsServicer
}

// NewExerciseService creates a new ExerciseServicer.
func NewExerciseService(db *gorm.DB, settings SettingsServicer) ExerciseServicer {
	return &exerciseService{db: db, settings: settings}
}

// buildExercise computes the exercise outcome for the selected legs and
// returns an unsaved record. Shared with the roll service for rolls that
// embed an exercise.
func buildExercise(legs models.LegList, req ExerciseRequest, settings *models.Settings) (*models.ExerciseRecord, error) {
	if len(req.LegIDs) == 0 {
		return nil, apperrors.ErrNoLegsSelected
	}

	feeRate := settings.ExerciseFeeRate
	if req.FeeRate != nil {
		feeRate = *req.FeeRate
	}

	selected := make(map[string]bool, len(req.LegIDs))
	for _, id := range req.LegIDs {
		selected[id] = true
	}

	outcome := valuation.ComputeExercise(legs, selected, req.ExercisePrice, feeRate)
	if len(outcome.Legs) == 0 {
		return nil, apperrors.ErrNoExercisableLegs
	}

	return &models.ExerciseRecord{
		Legs:        outcome.Legs,
		TotalCost:   outcome.TotalCost,
		TotalResult: outcome.TotalResult,
	}, nil
}

// CreateExercise records the exercise of the selected option legs. The
// record is immutable once created; the exercise fee is posted to the
// ledger in the same transaction.
func (s *exerciseService) CreateExercise(userID, structureID string, req ExerciseRequest) (*models.ExerciseRecord, error) {
	var structure models.Structure
	if err := s.db.Where("id = ? AND user_id = ?", structureID, userID).First(&structure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStructureNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if structure.Status != models.StructureStatusActive {
		return nil, apperrors.ErrStructureNotActive
	}

	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	record, err := buildExercise(structure.Legs, req, settings)
	if err != nil {
		return nil, err
	}
	record.UserID = userID
	record.StructureID = structure.ID

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !record.TotalCost.IsZero() {
			entry := &models.CashFlowEntry{
				UserID:             userID,
				Date:               now,
				Type:               models.CashFlowTypeExerciseCost,
				Amount:             record.TotalCost.Neg(),
				Description:        "Exercise: " + structure.Name,
				RelatedStructureID: &structure.ID,
			}
			if err := tx.Create(entry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return recomputeBalances(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetStructureExercises retrieves a paginated list of exercises for a structure.
func (s *exerciseService) GetStructureExercises(userID, structureID string, page pagination.PageRequest) (*pagination.PageResponse[models.ExerciseRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.ExerciseRecord{}).
		Where("user_id = ? AND structure_id = ?", userID, structureID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.ExerciseRecord
	if err := base.Order(page.OrderClause("created_at")).
		Scopes(pagination.Paginate(page)).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExerciseByID retrieves an exercise record by ID for a specific user.
func (s *exerciseService) GetExerciseByID(userID, exerciseID string) (*models.ExerciseRecord, error) {
	var record models.ExerciseRecord
	if err := s.db.Where("id = ? AND user_id = ?", exerciseID, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExerciseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}
