package models

import "github.com/shopspring/decimal"

// RollPosition records the replacement of a structure's legs with new ones.
// The original legs are preserved for audit; the new legs become the
// structure's legs going forward. Rows are immutable once created and may
// only be deleted.
type RollPosition struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	StructureID    string          `gorm:"type:uuid;not null;index" json:"structure_id"`
	OriginalLegs   LegList         `gorm:"type:jsonb" json:"original_legs"`
	NewLegs        LegList         `gorm:"type:jsonb" json:"new_legs"`
	Cost           decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"cost"`
	RealizedProfit decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"realized_profit"`

	// Optional exercise settled as part of the same roll.
	ExerciseID *string `gorm:"type:uuid" json:"exercise_id,omitempty"`

	// Relationships
	Exercise *ExerciseRecord `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}

// TableName overrides the default table name.
func (RollPosition) TableName() string {
	return "roll_positions"
}
