package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap is a map stored as a JSON column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer for JSON columns.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSON columns.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// User represents the user model in the database
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	Plan        JSONMap    `gorm:"type:jsonb" json:"plan,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Structures      []Structure     `gorm:"foreignKey:UserID" json:"structures,omitempty"`
	Assets          []Asset         `gorm:"foreignKey:UserID" json:"assets,omitempty"`
	CashFlowEntries []CashFlowEntry `gorm:"foreignKey:UserID" json:"cash_flow_entries,omitempty"`
}
