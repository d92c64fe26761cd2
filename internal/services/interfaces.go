package services

import (
	"time"

	"github.com/shopspring/decimal"

	"opcoes/internal/importer"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/valuation"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// StructureUpdateFields holds optional fields for editing a building structure.
type StructureUpdateFields struct {
	Name         *string
	Legs         *models.LegList
	NetPremium   *decimal.Decimal
	AssemblyCost *decimal.Decimal
	Expiration   *time.Time
}

// StructureServicer defines the contract for structure lifecycle logic.
type StructureServicer interface {
	CreateStructure(userID, name string, legs models.LegList, netPremium, assemblyCost decimal.Decimal, expiration *time.Time) (*models.Structure, error)
	GetUserStructures(userID string, status *models.StructureStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Structure], error)
	GetStructureByID(userID, structureID string) (*models.Structure, error)
	UpdateStructure(userID, structureID string, fields StructureUpdateFields) (*models.Structure, error)
	Activate(userID, structureID string) (*models.Structure, error)
	Finalize(userID, structureID string, result *decimal.Decimal) (*models.Structure, error)
	DeleteStructure(userID, structureID string) error
}

// RollRequest carries everything needed to commit a roll.
type RollRequest struct {
	Decisions []valuation.RollDecision
	Brokerage *decimal.Decimal // overrides the user's settings when set
	Exercise  *ExerciseRequest // optional exercise settled with the roll
}

// ExerciseRequest carries everything needed to commit an exercise.
type ExerciseRequest struct {
	LegIDs        []string
	ExercisePrice decimal.Decimal
	FeeRate       *decimal.Decimal // overrides the user's settings when set
}

// RollServicer defines the contract for roll operations.
type RollServicer interface {
	CreateRoll(userID, structureID string, req RollRequest) (*models.RollPosition, error)
	GetStructureRolls(userID, structureID string, page pagination.PageRequest) (*pagination.PageResponse[models.RollPosition], error)
	GetRollByID(userID, rollID string) (*models.RollPosition, error)
	DeleteRoll(userID, rollID string) error
}

// ExerciseServicer defines the contract for exercise operations.
type ExerciseServicer interface {
	CreateExercise(userID, structureID string, req ExerciseRequest) (*models.ExerciseRecord, error)
	GetStructureExercises(userID, structureID string, page pagination.PageRequest) (*pagination.PageResponse[models.ExerciseRecord], error)
	GetExerciseByID(userID, exerciseID string) (*models.ExerciseRecord, error)
}

// AssetUpdateFields holds optional fields for editing a custody asset.
type AssetUpdateFields struct {
	Quantity          *decimal.Decimal
	AveragePrice      *decimal.Decimal
	MarketPrice       *decimal.Decimal
	GuaranteeReleased *decimal.Decimal
	UsedAsGuarantee   *bool
}

// TreasuryServicer defines the contract for custody assets, the cash-flow
// ledger, and the composed treasury summary.
type TreasuryServicer interface {
	CreateAsset(userID, symbol string, assetType models.AssetType, quantity, averagePrice, marketPrice, guaranteeReleased decimal.Decimal) (*models.Asset, error)
	GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAssetByID(userID, assetID string) (*models.Asset, error)
	UpdateAsset(userID, assetID string, fields AssetUpdateFields) (*models.Asset, error)
	DeleteAsset(userID, assetID string) error
	UpdateMarketPrices(prices map[string]decimal.Decimal) (int, error)

	CreateCashFlowEntry(userID string, date time.Time, entryType models.CashFlowType, amount decimal.Decimal, description string, relatedStructureID, relatedRollID *string) (*models.CashFlowEntry, error)
	GetCashFlow(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CashFlowEntry], error)
	DeleteCashFlowEntry(userID, entryID string) error

	GetSummary(userID string) (*valuation.TreasurySummary, error)
}

// ImportResult reports the outcome of a CSV operation upload.
type ImportResult struct {
	Imported []models.TradingOperation `json:"imported"`
	Rejected []importer.RowError       `json:"rejected"`
}

// OperationServicer defines the contract for trading operation uploads.
type OperationServicer interface {
	ImportCSV(userID, structureID, csvData string) (*ImportResult, error)
	GetStructureOperations(userID, structureID string, page pagination.PageRequest) (*pagination.PageResponse[models.TradingOperation], error)
}

// SettingsServicer defines the contract for per-user trading settings.
type SettingsServicer interface {
	GetSettings(userID string) (*models.Settings, error)
	UpdateSettings(userID string, brokerageFee, emolumentRate, exerciseFeeRate *decimal.Decimal) (*models.Settings, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
