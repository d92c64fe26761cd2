package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StructureStatus represents the lifecycle state of a structure.
// Status only advances forward: building -> active -> closed/finalized.
type StructureStatus string

const (
	StructureStatusBuilding  StructureStatus = "building"
	StructureStatusActive    StructureStatus = "active"
	StructureStatusClosed    StructureStatus = "closed"
	StructureStatusFinalized StructureStatus = "finalized"
)

// rank orders statuses for forward-only transition checks.
func (s StructureStatus) rank() int {
	switch s {
	case StructureStatusBuilding:
		return 0
	case StructureStatusActive:
		return 1
	case StructureStatusClosed:
		return 2
	case StructureStatusFinalized:
		return 3
	}
	return -1
}

// CanTransitionTo reports whether the status may advance to next.
func (s StructureStatus) CanTransitionTo(next StructureStatus) bool {
	return next.rank() > s.rank()
}

// Structure represents a named basket of option/stock/future legs.
type Structure struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	Status       StructureStatus `gorm:"not null;default:'building'" json:"status"`
	Legs         LegList         `gorm:"type:jsonb" json:"legs"`
	NetPremium   decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"net_premium"`
	AssemblyCost decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"assembly_cost"`
	Expiration   *time.Time      `json:"expiration,omitempty"`
	ActivatedAt  *time.Time      `json:"activated_at,omitempty"`
	FinalizedAt  *time.Time      `json:"finalized_at,omitempty"`

	// Relationships
	Operations []TradingOperation `gorm:"foreignKey:StructureID" json:"operations,omitempty"`
	Rolls      []RollPosition     `gorm:"foreignKey:StructureID" json:"rolls,omitempty"`
	Exercises  []ExerciseRecord   `gorm:"foreignKey:StructureID" json:"exercises,omitempty"`
}
