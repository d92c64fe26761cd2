package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"opcoes/internal/models"
	"opcoes/internal/uuid"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// TestLeg builds a short call leg with sensible defaults.
func TestLeg() models.OptionLeg {
	n := nextID()
	expiration := time.Now().AddDate(0, 1, 0)
	return models.OptionLeg{
		ID:         uuid.New(),
		Symbol:     fmt.Sprintf("PETR%d", n),
		Kind:       models.LegKindCall,
		Side:       models.LegSideShort,
		Strike:     decimal.NewFromInt(35),
		Premium:    decimal.NewFromFloat(1.50),
		SpotPrice:  decimal.NewFromInt(34),
		Quantity:   decimal.NewFromInt(100),
		Expiration: &expiration,
	}
}

// TestStockLeg builds a long stock leg with sensible defaults.
func TestStockLeg() models.OptionLeg {
	n := nextID()
	return models.OptionLeg{
		ID:         uuid.New(),
		Symbol:     fmt.Sprintf("VALE%d", n),
		Kind:       models.LegKindStock,
		Side:       models.LegSideLong,
		EntryPrice: decimal.NewFromInt(60),
		SpotPrice:  decimal.NewFromInt(62),
		Quantity:   decimal.NewFromInt(100),
	}
}

// CreateTestStructure creates a building structure with a single short call leg.
func CreateTestStructure(t *testing.T, db *gorm.DB, userID string) *models.Structure {
	t.Helper()
	return CreateTestStructureWithLegs(t, db, userID, models.LegList{TestLeg()})
}

// CreateTestStructureWithLegs creates a building structure with the given legs.
func CreateTestStructureWithLegs(t *testing.T, db *gorm.DB, userID string, legs models.LegList) *models.Structure {
	t.Helper()

	structure := &models.Structure{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Structure %d", nextID()),
		Status:       models.StructureStatusBuilding,
		Legs:         legs,
		NetPremium:   decimal.NewFromInt(150),
		AssemblyCost: decimal.NewFromInt(50),
	}
	if err := db.Create(structure).Error; err != nil {
		t.Fatalf("failed to create test structure: %v", err)
	}
	return structure
}

// CreateTestActiveStructure creates a structure already in active status.
func CreateTestActiveStructure(t *testing.T, db *gorm.DB, userID string) *models.Structure {
	t.Helper()

	structure := CreateTestStructure(t, db, userID)
	now := time.Now()
	structure.Status = models.StructureStatusActive
	structure.ActivatedAt = &now
	if err := db.Save(structure).Error; err != nil {
		t.Fatalf("failed to activate test structure: %v", err)
	}
	return structure
}

// CreateTestAsset creates a custody asset of the given type.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string, assetType models.AssetType) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:       userID,
		Symbol:       fmt.Sprintf("TST%d", nextID()),
		Type:         assetType,
		Quantity:     decimal.NewFromInt(100),
		AveragePrice: decimal.NewFromInt(10),
		MarketPrice:  decimal.NewFromInt(12),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestCashFlowEntry creates a ledger entry of the given type and amount.
func CreateTestCashFlowEntry(t *testing.T, db *gorm.DB, userID string, entryType models.CashFlowType, amount decimal.Decimal) *models.CashFlowEntry {
	t.Helper()

	entry := &models.CashFlowEntry{
		UserID: userID,
		Date:   time.Now(),
		Type:   entryType,
		Amount: amount,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test cash flow entry: %v", err)
	}
	return entry
}

// CreateTestSettings creates settings with the given brokerage fee.
func CreateTestSettings(t *testing.T, db *gorm.DB, userID string, brokerageFee decimal.Decimal) *models.Settings {
	t.Helper()

	settings := &models.Settings{
		UserID:          userID,
		BrokerageFee:    brokerageFee,
		EmolumentRate:   models.DefaultEmolumentRate,
		ExerciseFeeRate: models.DefaultExerciseFeeRate,
	}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return settings
}
