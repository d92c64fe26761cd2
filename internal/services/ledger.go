package services

import (
	"gorm.io/gorm"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/valuation"
)

// recomputeBalances reloads a user's full ledger inside tx and rewrites
// every running balance as the chronological prefix sum. The ledger is
// small (one row per financial event per user), so a full rewrite on each
// mutation is cheaper than being clever.
func recomputeBalances(tx *gorm.DB, userID string) error {
	var entries []models.CashFlowEntry
	if err := tx.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries = valuation.RunningBalances(entries)
	for i := range entries {
		if err := tx.Model(&models.CashFlowEntry{}).
			Where("id = ?", entries[i].ID).
			Update("balance", entries[i].Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
