package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/importer"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
)

// operationService handles trading operation uploads.
type operationService struct {
	db *gorm.DB
}

// NewOperationService creates a new OperationServicer.
func NewOperationService(db *gorm.DB) OperationServicer {
	return &operationService{db: db}
}

// ImportCSV parses a broker CSV export and attaches the valid rows to the
// structure. Invalid rows are rejected individually with line-numbered
// errors; valid rows still import.
func (s *operationService) ImportCSV(userID, structureID, csvData string) (*ImportResult, error) {
	var structure models.Structure
	if err := s.db.Where("id = ? AND user_id = ?", structureID, userID).First(&structure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStructureNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ops, rejected := importer.ParseOperations(csvData)

	result := &ImportResult{Rejected: rejected}
	if len(ops) == 0 {
		return result, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range ops {
			ops[i].UserID = userID
			ops[i].StructureID = structure.ID
			if err := tx.Create(&ops[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Imported = ops
	return result, nil
}

// GetStructureOperations retrieves a paginated list of operations for a structure.
func (s *operationService) GetStructureOperations(userID, structureID string, page pagination.PageRequest) (*pagination.PageResponse[models.TradingOperation], error) {
	page.Defaults()

	base := s.db.Model(&models.TradingOperation{}).
		Where("user_id = ? AND structure_id = ?", userID, structureID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ops []models.TradingOperation
	if err := base.Order(page.OrderClause("entry_date")).
		Scopes(pagination.Paginate(page)).
		Find(&ops).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(ops, page.Page, page.PageSize, totalItems)
	return &result, nil
}
