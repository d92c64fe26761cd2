package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradingOperation represents a realized fill belonging to a structure.
// Result is computed once at import time and never recomputed.
type TradingOperation struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	StructureID  string          `gorm:"type:uuid;not null;index" json:"structure_id"`
	Symbol       string          `gorm:"not null" json:"symbol"`
	Type         string          `gorm:"not null" json:"type"`
	AveragePrice decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"average_price"`
	ExitPrice    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"exit_price"`
	Quantity     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"quantity"`
	Premium      decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"premium"`
	Fees         decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"fees"`
	Result       decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"result"`
	EntryDate    time.Time       `gorm:"not null" json:"entry_date"`
	ExitDate     *time.Time      `json:"exit_date,omitempty"`
	Status       string          `gorm:"not null" json:"status"`

	// Relationships
	Structure Structure `gorm:"foreignKey:StructureID" json:"-"`
}

// TableName overrides the default table name.
func (TradingOperation) TableName() string {
	return "trading_operations"
}
