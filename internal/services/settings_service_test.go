package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"opcoes/internal/models"
	"opcoes/internal/testutil"
)

func TestGetSettingsMaterializesDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewSettingsService(db)

	settings, err := svc.GetSettings(user.ID)
	testutil.AssertNoError(t, err)

	testutil.AssertDecimalEqual(t, decimal.Zero, settings.BrokerageFee)
	testutil.AssertDecimalEqual(t, models.DefaultEmolumentRate, settings.EmolumentRate)
	testutil.AssertDecimalEqual(t, models.DefaultExerciseFeeRate, settings.ExerciseFeeRate)

	// Second call returns the same stored row.
	again, err := svc.GetSettings(user.ID)
	testutil.AssertNoError(t, err)
	if again.ID != settings.ID {
		t.Errorf("expected the same settings row, got %s and %s", settings.ID, again.ID)
	}
}

func TestUpdateSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewSettingsService(db)

	brokerage := decimal.NewFromInt(15)
	exerciseFee := decimal.NewFromFloat(0.01)

	updated, err := svc.UpdateSettings(user.ID, &brokerage, nil, &exerciseFee)
	testutil.AssertNoError(t, err)

	testutil.AssertDecimalEqual(t, brokerage, updated.BrokerageFee)
	testutil.AssertDecimalEqual(t, exerciseFee, updated.ExerciseFeeRate)
	// Untouched field keeps its default.
	testutil.AssertDecimalEqual(t, models.DefaultEmolumentRate, updated.EmolumentRate)
}
