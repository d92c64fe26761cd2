package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowType represents the kind of ledger entry.
type CashFlowType string

const (
	CashFlowTypeDeposit       CashFlowType = "deposit"
	CashFlowTypeWithdrawal    CashFlowType = "withdrawal"
	CashFlowTypeStructureCost CashFlowType = "structure_cost"
	CashFlowTypePremium       CashFlowType = "premium"
	CashFlowTypeRollCost      CashFlowType = "roll_cost"
	CashFlowTypeExerciseCost  CashFlowType = "exercise_cost"
	CashFlowTypeBrokerage     CashFlowType = "brokerage"
	CashFlowTypeTax           CashFlowType = "tax"
	CashFlowTypeProfit        CashFlowType = "profit"
)

// CashFlowEntry is one ledger row. Balance is the running sum of entry
// amounts in chronological order, maintained on every insert and delete.
type CashFlowEntry struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Type        CashFlowType    `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Balance     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"balance"`
	Description string          `json:"description"`

	RelatedStructureID *string `gorm:"type:uuid" json:"related_structure_id,omitempty"`
	RelatedRollID      *string `gorm:"type:uuid" json:"related_roll_id,omitempty"`
}

// TableName overrides the default table name.
func (CashFlowEntry) TableName() string {
	return "cash_flow_entries"
}
