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

// rollService handles roll operations.
type rollService struct {
	db       *gorm.DB
	settings SettingsServicer
}

// NewRollService creates a new RollServicer.
func NewRollService(db *gorm.DB, settings SettingsServicer) RollServicer {
	return &rollService{db: db, settings: settings}
}

// CreateRoll validates and commits a roll: the original legs are
// snapshotted for audit, rolled legs are replaced by id on the structure,
// the roll cost and realized profit are posted to the ledger, and an
// optional exercise is settled — all in one database transaction.
func (s *rollService) CreateRoll(userID, structureID string, req RollRequest) (*models.RollPosition, error) {
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

	if errs := valuation.ValidateRoll(structure.Legs, req.Decisions); len(errs) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrRollValidation, errs.Error())
	}

	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	brokerage := settings.BrokerageFee
	if req.Brokerage != nil {
		brokerage = *req.Brokerage
	}

	summary := valuation.ComputeRoll(structure.Legs, req.Decisions, brokerage, settings.EmolumentRate)
	newLegs := valuation.ReplaceLegs(structure.Legs, req.Decisions)

	roll := &models.RollPosition{
		UserID:         userID,
		StructureID:    structure.ID,
		OriginalLegs:   structure.Legs,
		NewLegs:        newLegs,
		Cost:           summary.TotalCost,
		RealizedProfit: summary.RealizedProfit,
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.Exercise != nil {
			record, err := buildExercise(structure.Legs, *req.Exercise, settings)
			if err != nil {
				return err
			}
			record.UserID = userID
			record.StructureID = structure.ID
			if err := tx.Create(record).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			roll.ExerciseID = &record.ID
		}

		if err := tx.Create(roll).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&structure).Update("legs", newLegs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		costEntry := &models.CashFlowEntry{
			UserID:             userID,
			Date:               now,
			Type:               models.CashFlowTypeRollCost,
			Amount:             summary.TotalCost.Neg(),
			Description:        "Roll: " + structure.Name,
			RelatedStructureID: &structure.ID,
			RelatedRollID:      &roll.ID,
		}
		if err := tx.Create(costEntry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !summary.RealizedProfit.IsZero() {
			profitEntry := &models.CashFlowEntry{
				UserID:             userID,
				Date:               now,
				Type:               models.CashFlowTypeProfit,
				Amount:             summary.RealizedProfit,
				Description:        "Roll result: " + structure.Name,
				RelatedStructureID: &structure.ID,
				RelatedRollID:      &roll.ID,
			}
			if err := tx.Create(profitEntry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return recomputeBalances(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return roll, nil
}

// GetStructureRolls retrieves a paginated list of rolls for a structure.
func (s *rollService) GetStructureRolls(userID, structureID string, page pagination.PageRequest) (*pagination.PageResponse[models.RollPosition], error) {
	page.Defaults()

	base := s.db.Model(&models.RollPosition{}).
		Where("user_id = ? AND structure_id = ?", userID, structureID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rolls []models.RollPosition
	if err := base.Order(page.OrderClause("created_at")).
		Scopes(pagination.Paginate(page)).
		Find(&rolls).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rolls, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRollByID retrieves a roll by ID for a specific user.
func (s *rollService) GetRollByID(userID, rollID string) (*models.RollPosition, error) {
	var roll models.RollPosition
	if err := s.db.Preload("Exercise").
		Where("id = ? AND user_id = ?", rollID, userID).
		First(&roll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRollNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &roll, nil
}

// DeleteRoll removes a roll record and its ledger entries. Rolls are
// otherwise immutable.
func (s *rollService) DeleteRoll(userID, rollID string) error {
	roll, err := s.GetRollByID(userID, rollID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND related_roll_id = ?", userID, roll.ID).
			Delete(&models.CashFlowEntry{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(roll).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return recomputeBalances(tx, userID)
	})
}
