package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/testutil"
	"opcoes/internal/uuid"
)

func TestCreateExercise(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewExerciseService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	legID := structure.Legs[0].ID

	record, err := svc.CreateExercise(user.ID, structure.ID, ExerciseRequest{
		LegIDs:        []string{legID},
		ExercisePrice: decimal.NewFromInt(40),
	})
	testutil.AssertNoError(t, err)

	if len(record.Legs) != 1 {
		t.Fatalf("expected 1 exercised leg, got %d", len(record.Legs))
	}
	// Short call, strike 35, price 40, qty 100, fee 0.75%:
	// fee = 35 x 100 x 0.0075 = 26.25, intrinsic -500, result -526.25.
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(26.25), record.TotalCost)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(-526.25), record.TotalResult)

	// Fee posted to the ledger as a negative exercise-cost entry.
	var entry models.CashFlowEntry
	testutil.AssertNoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.CashFlowTypeExerciseCost).
		First(&entry).Error)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(-26.25), entry.Amount)
}

func TestCreateExerciseFeeRateOverride(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewExerciseService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	zero := decimal.Zero

	record, err := svc.CreateExercise(user.ID, structure.ID, ExerciseRequest{
		LegIDs:        []string{structure.Legs[0].ID},
		ExercisePrice: decimal.NewFromInt(40),
		FeeRate:       &zero,
	})
	testutil.AssertNoError(t, err)

	testutil.AssertDecimalEqual(t, decimal.Zero, record.TotalCost)
}

func TestCreateExerciseRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewExerciseService(db, NewSettingsService(db))

	building := testutil.CreateTestStructure(t, db, user.ID)
	_, err := svc.CreateExercise(user.ID, building.ID, ExerciseRequest{
		LegIDs:        []string{building.Legs[0].ID},
		ExercisePrice: decimal.NewFromInt(40),
	})
	testutil.AssertAppError(t, err, "STRUCTURE_NOT_ACTIVE")

	active := testutil.CreateTestActiveStructure(t, db, user.ID)

	_, err = svc.CreateExercise(user.ID, active.ID, ExerciseRequest{
		ExercisePrice: decimal.NewFromInt(40),
	})
	testutil.AssertAppError(t, err, "NO_LEGS_SELECTED")

	// Selecting only unknown leg ids leaves nothing exercisable.
	_, err = svc.CreateExercise(user.ID, active.ID, ExerciseRequest{
		LegIDs:        []string{uuid.New()},
		ExercisePrice: decimal.NewFromInt(40),
	})
	testutil.AssertAppError(t, err, "NO_EXERCISABLE_LEGS")
}

func TestCreateExerciseSkipsStockLegs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewExerciseService(db, NewSettingsService(db))

	stockOnly := testutil.CreateTestStructureWithLegs(t, db, user.ID,
		models.LegList{testutil.TestStockLeg()})
	testutil.AssertNoError(t, db.Model(stockOnly).Update("status", models.StructureStatusActive).Error)

	_, err := svc.CreateExercise(user.ID, stockOnly.ID, ExerciseRequest{
		LegIDs:        []string{stockOnly.Legs[0].ID},
		ExercisePrice: decimal.NewFromInt(40),
	})
	testutil.AssertAppError(t, err, "NO_EXERCISABLE_LEGS")
}

func TestGetStructureExercises(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewExerciseService(db, NewSettingsService(db))

	structure := testutil.CreateTestActiveStructure(t, db, user.ID)
	record, err := svc.CreateExercise(user.ID, structure.ID, ExerciseRequest{
		LegIDs:        []string{structure.Legs[0].ID},
		ExercisePrice: decimal.NewFromInt(40),
	})
	testutil.AssertNoError(t, err)

	result, err := svc.GetStructureExercises(user.ID, structure.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Errorf("expected 1 exercise, got %d", result.TotalItems)
	}

	loaded, err := svc.GetExerciseByID(user.ID, record.ID)
	testutil.AssertNoError(t, err)
	if loaded.StructureID != structure.ID {
		t.Errorf("expected structure id %s, got %s", structure.ID, loaded.StructureID)
	}

	other := testutil.CreateTestUser(t, db)
	_, err = svc.GetExerciseByID(other.ID, record.ID)
	testutil.AssertAppError(t, err, "EXERCISE_NOT_FOUND")
}
