package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/valuation"
)

// treasuryService handles custody assets, the cash-flow ledger, and the
// composed treasury summary.
type treasuryService struct {
	db *gorm.DB
}

// NewTreasuryService creates a new TreasuryServicer.
func NewTreasuryService(db *gorm.DB) TreasuryServicer {
	return &treasuryService{db: db}
}

// CreateAsset adds a custody holding.
func (s *treasuryService) CreateAsset(userID, symbol string, assetType models.AssetType, quantity, averagePrice, marketPrice, guaranteeReleased decimal.Decimal) (*models.Asset, error) {
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset symbol is required")
	}

	asset := &models.Asset{
		UserID:            userID,
		Symbol:            symbol,
		Type:              assetType,
		Quantity:          quantity,
		AveragePrice:      averagePrice,
		MarketPrice:       marketPrice,
		GuaranteeReleased: guaranteeReleased,
	}

	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return asset, nil
}

// GetUserAssets retrieves a paginated list of custody assets.
func (s *treasuryService) GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	base := s.db.Model(&models.Asset{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := base.Order(page.OrderClause("symbol")).
		Scopes(pagination.Paginate(page)).
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAssetByID retrieves a custody asset by ID for a specific user.
func (s *treasuryService) GetAssetByID(userID, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateAsset edits a custody asset.
func (s *treasuryService) UpdateAsset(userID, assetID string, fields AssetUpdateFields) (*models.Asset, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Quantity != nil {
		updates["quantity"] = *fields.Quantity
	}
	if fields.AveragePrice != nil {
		updates["average_price"] = *fields.AveragePrice
	}
	if fields.MarketPrice != nil {
		updates["market_price"] = *fields.MarketPrice
	}
	if fields.GuaranteeReleased != nil {
		updates["guarantee_released"] = *fields.GuaranteeReleased
	}
	if fields.UsedAsGuarantee != nil {
		updates["used_as_guarantee"] = *fields.UsedAsGuarantee
	}

	if len(updates) > 0 {
		if err := s.db.Model(asset).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", asset.ID).First(asset).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return asset, nil
}

// DeleteAsset removes a custody asset.
func (s *treasuryService) DeleteAsset(userID, assetID string) error {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdateMarketPrices applies a symbol-to-price map from the price pipeline
// across all users' custody rows. Returns the number of rows touched.
func (s *treasuryService) UpdateMarketPrices(prices map[string]decimal.Decimal) (int, error) {
	touched := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for symbol, price := range prices {
			res := tx.Model(&models.Asset{}).
				Where("symbol = ?", symbol).
				Update("market_price", price)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			touched += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

// CreateCashFlowEntry appends a ledger row and recomputes running
// balances in the same transaction.
func (s *treasuryService) CreateCashFlowEntry(userID string, date time.Time, entryType models.CashFlowType, amount decimal.Decimal, description string, relatedStructureID, relatedRollID *string) (*models.CashFlowEntry, error) {
	entry := &models.CashFlowEntry{
		UserID:             userID,
		Date:               date,
		Type:               entryType,
		Amount:             amount,
		Description:        description,
		RelatedStructureID: relatedStructureID,
		RelatedRollID:      relatedRollID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return recomputeBalances(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	// Reload for the recomputed balance.
	if err := s.db.Where("id = ?", entry.ID).First(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetCashFlow retrieves the ledger in chronological order.
func (s *treasuryService) GetCashFlow(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CashFlowEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.CashFlowEntry{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.CashFlowEntry
	if err := base.Order(page.OrderClause("date")).Order("created_at").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteCashFlowEntry removes a ledger row and recomputes running balances.
func (s *treasuryService) DeleteCashFlowEntry(userID, entryID string) error {
	var entry models.CashFlowEntry
	if err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCashFlowEntryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return recomputeBalances(tx, userID)
	})
}

// GetSummary composes the treasury view from the ledger, custody, and
// active structures.
func (s *treasuryService) GetSummary(userID string) (*valuation.TreasurySummary, error) {
	var entries []models.CashFlowEntry
	if err := s.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var structures []models.Structure
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.StructureStatusActive).
		Find(&structures).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := valuation.Summarize(entries, assets, structures)
	return &summary, nil
}
