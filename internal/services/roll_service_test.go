package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/testutil"
	"opcoes/internal/valuation"
)

func completeDecision(legID string) valuation.RollDecision {
	exp := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)
	return valuation.RollDecision{
		LegID:         legID,
		Action:        valuation.RollActionRoll,
		ExitPrice:     decimal.NewFromFloat(0.80),
		NewStrike:     decimal.NewFromInt(36),
		NewPremium:    decimal.NewFromInt(2),
		NewExpiration: &exp,
	}
}

func TestCreateRoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewRollService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	legID := structure.Legs[0].ID

	roll, err := svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{completeDecision(legID)},
	})
	testutil.AssertNoError(t, err)

	// Short leg, premium 1.50, exit 0.80, qty 100: profit 70, repurchase 80.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(70), roll.RealizedProfit)
	// Default settings: no brokerage, emolument 0.25% on repurchase.
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(80.2), roll.Cost)

	// Structure legs replaced in place.
	var reloaded models.Structure
	testutil.AssertNoError(t, db.First(&reloaded, "id = ?", structure.ID).Error)
	if !reloaded.Legs[0].Strike.Equal(decimal.NewFromInt(36)) {
		t.Errorf("expected rolled strike 36, got %s", reloaded.Legs[0].Strike)
	}
	if len(roll.OriginalLegs) != 1 || !roll.OriginalLegs[0].Strike.Equal(structure.Legs[0].Strike) {
		t.Errorf("original legs should snapshot the pre-roll state")
	}

	// Ledger: roll cost (negative) and realized profit.
	var entries []models.CashFlowEntry
	testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).Order("amount").Find(&entries).Error)
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(-80.2), entries[0].Amount)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(70), entries[1].Amount)
}

func TestCreateRollRejectsIncompleteDecisions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewRollService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	legID := structure.Legs[0].ID

	// No leg marked to roll.
	_, err := svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{{LegID: legID, Action: valuation.RollActionKeep}},
	})
	testutil.AssertAppError(t, err, "ROLL_VALIDATION")

	// Rolled leg missing replacement data.
	_, err = svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{{LegID: legID, Action: valuation.RollActionRoll}},
	})
	testutil.AssertAppError(t, err, "ROLL_VALIDATION")

	// Nothing was committed.
	var count int64
	testutil.AssertNoError(t, db.Model(&models.RollPosition{}).Count(&count).Error)
	if count != 0 {
		t.Errorf("expected no roll records, found %d", count)
	}
	testutil.AssertNoError(t, db.Model(&models.CashFlowEntry{}).Count(&count).Error)
	if count != 0 {
		t.Errorf("expected no ledger entries, found %d", count)
	}
}

func TestCreateRollRequiresActiveStructure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewRollService(db, NewSettingsService(db))

	building := testutil.CreateTestStructure(t, db, user.ID)

	_, err := svc.CreateRoll(user.ID, building.ID, RollRequest{
		Decisions: []valuation.RollDecision{completeDecision(building.Legs[0].ID)},
	})
	testutil.AssertAppError(t, err, "STRUCTURE_NOT_ACTIVE")
}

func TestCreateRollBrokerageOverride(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestSettings(t, db, user.ID, decimal.NewFromInt(10))
	svc := NewRollService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	override := decimal.NewFromInt(25)

	roll, err := svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{completeDecision(structure.Legs[0].ID)},
		Brokerage: &override,
	})
	testutil.AssertNoError(t, err)

	// 25 + 80 + 80 x 0.0025 = 105.2, not the stored 10.
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(105.2), roll.Cost)
}

func TestCreateRollWithExercise(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewRollService(db, NewSettingsService(db))

	legs := models.LegList{testutil.TestLeg(), testutil.TestLeg()}
	structure := testutil.CreateTestStructureWithLegs(t, db, user.ID, legs)
	now := time.Now()
	structure.Status = models.StructureStatusActive
	structure.ActivatedAt = &now
	testutil.AssertNoError(t, db.Save(structure).Error)

	roll, err := svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{completeDecision(legs[0].ID)},
		Exercise: &ExerciseRequest{
			LegIDs:        []string{legs[1].ID},
			ExercisePrice: decimal.NewFromInt(40),
		},
	})
	testutil.AssertNoError(t, err)

	if roll.ExerciseID == nil {
		t.Fatal("expected roll to reference its exercise record")
	}

	loaded, err := svc.GetRollByID(user.ID, roll.ID)
	testutil.AssertNoError(t, err)
	if loaded.Exercise == nil {
		t.Fatal("expected exercise preloaded on the roll")
	}
	if len(loaded.Exercise.Legs) != 1 {
		t.Errorf("expected 1 exercised leg, got %d", len(loaded.Exercise.Legs))
	}
}

func TestGetStructureRolls(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewRollService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	_, err := svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{completeDecision(structure.Legs[0].ID)},
	})
	testutil.AssertNoError(t, err)

	result, err := svc.GetStructureRolls(user.ID, structure.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Errorf("expected 1 roll, got %d", result.TotalItems)
	}
}

func TestDeleteRollRemovesLedgerEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewRollService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	roll, err := svc.CreateRoll(user.ID, structure.ID, RollRequest{
		Decisions: []valuation.RollDecision{completeDecision(structure.Legs[0].ID)},
	})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteRoll(user.ID, roll.ID))

	_, err = svc.GetRollByID(user.ID, roll.ID)
	testutil.AssertAppError(t, err, "ROLL_NOT_FOUND")

	var count int64
	testutil.AssertNoError(t, db.Model(&models.CashFlowEntry{}).
		Where("related_roll_id = ?", roll.ID).Count(&count).Error)
	if count != 0 {
		t.Errorf("expected roll ledger entries removed, found %d", count)
	}
}
