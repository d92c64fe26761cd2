package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LegKind represents the instrument kind of a leg.
type LegKind string

const (
	LegKindCall   LegKind = "call"
	LegKindPut    LegKind = "put"
	LegKindStock  LegKind = "stock"
	LegKindFuture LegKind = "future"
)

// IsOption reports whether the leg kind is an option (call or put).
func (k LegKind) IsOption() bool {
	return k == LegKindCall || k == LegKindPut
}

// LegSide represents the direction of a leg.
type LegSide string

const (
	LegSideLong  LegSide = "long"
	LegSideShort LegSide = "short"
)

// OptionLeg is one instrument position inside a structure (or inside a
// roll's before/after snapshot). Legs are stored as a jsonb column on
// their owning row, not as a table of their own.
type OptionLeg struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Kind       LegKind         `json:"kind"`
	Side       LegSide         `json:"side"`
	Strike     decimal.Decimal `json:"strike"`
	Premium    decimal.Decimal `json:"premium"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	SpotPrice  decimal.Decimal `json:"spot_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Expiration *time.Time      `json:"expiration,omitempty"`

	// MarginPct overrides the default margin percentage for short legs.
	MarginPct *decimal.Decimal `json:"margin_pct,omitempty"`
}

// LegList is a jsonb-backed slice of legs.
type LegList []OptionLeg

// Value implements driver.Valuer.
func (l LegList) Value() (driver.Value, error) {
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
func (l *LegList) Scan(value interface{}) error {
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
		return fmt.Errorf("unsupported type for LegList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// FindByID returns a pointer to the leg with the given ID, or nil.
func (l LegList) FindByID(id string) *OptionLeg {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}
