package models

import "github.com/shopspring/decimal"

// Default fee rates applied when a user has no stored settings.
var (
	DefaultEmolumentRate   = decimal.NewFromFloat(0.0025)
	DefaultExerciseFeeRate = decimal.NewFromFloat(0.0075)
)

// Settings holds per-user trading fee parameters.
type Settings struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BrokerageFee    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"brokerage_fee"`
	EmolumentRate   decimal.Decimal `gorm:"type:numeric(8,6);not null;default:0.0025" json:"emolument_rate"`
	ExerciseFeeRate decimal.Decimal `gorm:"type:numeric(8,6);not null;default:0.0075" json:"exercise_fee_rate"`
}
