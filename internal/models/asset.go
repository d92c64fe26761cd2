package models

import "github.com/shopspring/decimal"

// AssetType represents the kind of custody holding.
type AssetType string

const (
	AssetTypeStock       AssetType = "stock"
	AssetTypeFixedIncome AssetType = "fixed_income"
	AssetTypeOptions     AssetType = "options"
	AssetTypeFutures     AssetType = "futures"
)

// Asset represents a custody holding valued at market price.
type Asset struct {
	Base
	UserID            string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Symbol            string          `gorm:"not null" json:"symbol"`
	Type              AssetType       `gorm:"not null" json:"type"`
	Quantity          decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"quantity"`
	AveragePrice      decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"average_price"`
	MarketPrice       decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"market_price"`
	GuaranteeReleased decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0" json:"guarantee_released"`
	UsedAsGuarantee   bool            `gorm:"default:false" json:"used_as_guarantee"`
}

// MarketValue returns quantity x market price.
func (a *Asset) MarketValue() decimal.Decimal {
	return a.Quantity.Mul(a.MarketPrice)
}

// TableName overrides the default table name.
func (Asset) TableName() string {
	return "assets_custody"
}
