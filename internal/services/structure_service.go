package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/uuid"
)

// structureService handles structure lifecycle business logic.
type structureService struct {
	db *gorm.DB
}

// NewStructureService creates a new StructureServicer.
func NewStructureService(db *gorm.DB) StructureServicer {
	return &structureService{db: db}
}

// CreateStructure creates a new structure in building status.
func (s *structureService) CreateStructure(userID, name string, legs models.LegList, netPremium, assemblyCost decimal.Decimal, expiration *time.Time) (*models.Structure, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "structure name is required")
	}

	for i := range legs {
		if legs[i].ID == "" {
			legs[i].ID = uuid.New()
		}
	}

	structure := &models.Structure{
		UserID:       userID,
		Name:         name,
		Status:       models.StructureStatusBuilding,
		Legs:         legs,
		NetPremium:   netPremium,
		AssemblyCost: assemblyCost,
		Expiration:   expiration,
	}

	if err := s.db.Create(structure).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return structure, nil
}

// GetUserStructures retrieves a paginated list of structures, optionally
// filtered by status.
func (s *structureService) GetUserStructures(userID string, status *models.StructureStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Structure], error) {
	page.Defaults()

	base := s.db.Model(&models.Structure{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var structures []models.Structure
	if err := base.Order(page.OrderClause("created_at")).
		Scopes(pagination.Paginate(page)).
		Find(&structures).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(structures, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStructureByID retrieves a structure by ID for a specific user.
func (s *structureService) GetStructureByID(userID, structureID string) (*models.Structure, error) {
	var structure models.Structure
	if err := s.db.Where("id = ? AND user_id = ?", structureID, userID).First(&structure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStructureNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &structure, nil
}

// UpdateStructure edits a structure. Only structures still being built can
// be edited; active and finalized structures change through their own
// lifecycle operations.
func (s *structureService) UpdateStructure(userID, structureID string, fields StructureUpdateFields) (*models.Structure, error) {
	structure, err := s.GetStructureByID(userID, structureID)
	if err != nil {
		return nil, err
	}

	if structure.Status != models.StructureStatusBuilding {
		return nil, apperrors.ErrStructureNotBuilding
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Legs != nil {
		legs := *fields.Legs
		for i := range legs {
			if legs[i].ID == "" {
				legs[i].ID = uuid.New()
			}
		}
		updates["legs"] = legs
	}
	if fields.NetPremium != nil {
		updates["net_premium"] = *fields.NetPremium
	}
	if fields.AssemblyCost != nil {
		updates["assembly_cost"] = *fields.AssemblyCost
	}
	if fields.Expiration != nil {
		updates["expiration"] = *fields.Expiration
	}

	if len(updates) > 0 {
		if err := s.db.Model(structure).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", structure.ID).First(structure).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return structure, nil
}

// Activate transitions a structure from building to active. The assembly
// cost and net premium are posted to the cash-flow ledger and the
// structure's holdings enter custody, all in one database transaction.
func (s *structureService) Activate(userID, structureID string) (*models.Structure, error) {
	structure, err := s.GetStructureByID(userID, structureID)
	if err != nil {
		return nil, err
	}

	if !structure.Status.CanTransitionTo(models.StructureStatusActive) {
		return nil, apperrors.ErrInvalidTransition
	}
	if len(structure.Legs) == 0 {
		return nil, apperrors.ErrStructureHasNoLegs
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(structure).Updates(map[string]interface{}{
			"status":       models.StructureStatusActive,
			"activated_at": now,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !structure.AssemblyCost.IsZero() {
			entry := &models.CashFlowEntry{
				UserID:             userID,
				Date:               now,
				Type:               models.CashFlowTypeStructureCost,
				Amount:             structure.AssemblyCost.Neg(),
				Description:        "Assembly cost: " + structure.Name,
				RelatedStructureID: &structure.ID,
			}
			if err := tx.Create(entry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if !structure.NetPremium.IsZero() {
			entry := &models.CashFlowEntry{
				UserID:             userID,
				Date:               now,
				Type:               models.CashFlowTypePremium,
				Amount:             structure.NetPremium,
				Description:        "Net premium: " + structure.Name,
				RelatedStructureID: &structure.ID,
			}
			if err := tx.Create(entry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := s.enterCustody(tx, userID, structure); err != nil {
			return err
		}

		return recomputeBalances(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetStructureByID(userID, structureID)
}

// enterCustody records the activated structure's holdings in custody:
// one options row for the structure itself and one stock row per stock leg.
func (s *structureService) enterCustody(tx *gorm.DB, userID string, structure *models.Structure) error {
	optionsAsset := &models.Asset{
		UserID:       userID,
		Symbol:       structure.Name,
		Type:         models.AssetTypeOptions,
		Quantity:     decimal.NewFromInt(1),
		AveragePrice: structure.AssemblyCost,
		MarketPrice:  structure.NetPremium,
	}
	if err := tx.Create(optionsAsset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range structure.Legs {
		leg := &structure.Legs[i]
		if leg.Kind != models.LegKindStock {
			continue
		}
		stockAsset := &models.Asset{
			UserID:       userID,
			Symbol:       leg.Symbol,
			Type:         models.AssetTypeStock,
			Quantity:     leg.Quantity,
			AveragePrice: leg.EntryPrice,
			MarketPrice:  leg.EntryPrice,
		}
		if err := tx.Create(stockAsset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return nil
}

// Finalize transitions an active structure to finalized, posting the
// realized result to the ledger and retiring the structure's custody row.
func (s *structureService) Finalize(userID, structureID string, result *decimal.Decimal) (*models.Structure, error) {
	structure, err := s.GetStructureByID(userID, structureID)
	if err != nil {
		return nil, err
	}

	// Only active structures finalize: building may not skip active, and
	// finalized is terminal.
	if structure.Status != models.StructureStatusActive {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(structure).Updates(map[string]interface{}{
			"status":       models.StructureStatusFinalized,
			"finalized_at": now,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if result != nil && !result.IsZero() {
			entry := &models.CashFlowEntry{
				UserID:             userID,
				Date:               now,
				Type:               models.CashFlowTypeProfit,
				Amount:             *result,
				Description:        "Result: " + structure.Name,
				RelatedStructureID: &structure.ID,
			}
			if err := tx.Create(entry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		// The structure's options row leaves custody once it is zeroed.
		if err := tx.Where("user_id = ? AND symbol = ? AND type = ?",
			userID, structure.Name, models.AssetTypeOptions).
			Delete(&models.Asset{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return recomputeBalances(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetStructureByID(userID, structureID)
}

// DeleteStructure removes a structure by explicit user action.
func (s *structureService) DeleteStructure(userID, structureID string) error {
	structure, err := s.GetStructureByID(userID, structureID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(structure).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
