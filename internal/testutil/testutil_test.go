package testutil_test

import (
	"testing"

	"opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "structures", "trading_operations", "roll_positions", "exercise_records", "assets_custody", "cash_flow_entries", "settings", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}

	structure := testutil.CreateTestStructure(t, db, user.ID)
	if structure.Status != models.StructureStatusBuilding {
		t.Errorf("expected building status, got %s", structure.Status)
	}
	if len(structure.Legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(structure.Legs))
	}

	active := testutil.CreateTestActiveStructure(t, db, user.ID)
	if active.Status != models.StructureStatusActive {
		t.Errorf("expected active status, got %s", active.Status)
	}
	if active.ActivatedAt == nil {
		t.Error("active structure should have an activation timestamp")
	}

	asset := testutil.CreateTestAsset(t, db, user.ID, models.AssetTypeStock)
	if asset.Type != models.AssetTypeStock {
		t.Errorf("expected stock asset, got %s", asset.Type)
	}

	entry := testutil.CreateTestCashFlowEntry(t, db, user.ID, models.CashFlowTypeDeposit, decimal.NewFromInt(1000))
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(1000), entry.Amount)

	settings := testutil.CreateTestSettings(t, db, user.ID, decimal.NewFromInt(10))
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(10), settings.BrokerageFee)
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrStructureNotFound, "custom message")
	testutil.AssertAppError(t, err, "STRUCTURE_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
