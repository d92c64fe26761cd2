package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ExercisedLeg is the per-leg outcome of an option exercise.
type ExercisedLeg struct {
	LegID         string          `json:"leg_id"`
	Symbol        string          `json:"symbol"`
	Kind          LegKind         `json:"kind"`
	Side          LegSide         `json:"side"`
	Strike        decimal.Decimal `json:"strike"`
	Quantity      decimal.Decimal `json:"quantity"`
	ExercisePrice decimal.Decimal `json:"exercise_price"`
	Cost          decimal.Decimal `json:"cost"`
	Result        decimal.Decimal `json:"result"`
}

// ExercisedLegList is a jsonb-backed slice of exercised legs.
type ExercisedLegList []ExercisedLeg

// Value implements driver.Valuer.
func (l ExercisedLegList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *ExercisedLegList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for ExercisedLegList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// ExerciseRecord records an option exercise. Created by explicit user
// confirmation and immutable afterward.
type ExerciseRecord struct {
	Base
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	StructureID string           `gorm:"type:uuid;not null;index" json:"structure_id"`
	Legs        ExercisedLegList `gorm:"type:jsonb" json:"legs"`
	TotalCost   decimal.Decimal  `gorm:"type:numeric(20,8);not null;default:0" json:"total_cost"`
	TotalResult decimal.Decimal  `gorm:"type:numeric(20,8);not null;default:0" json:"total_result"`
}

// TableName overrides the default table name.
func (ExerciseRecord) TableName() string {
	return "exercise_records"
}
