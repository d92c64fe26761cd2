package integration

import (
	"net/http"
	"testing"
)

func TestSettingsFlow_DefaultsAndUpdate(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "settings@test.com", "password123")

	// First read materializes the defaults
	rec := app.request("GET", "/api/v1/settings", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings failed: %d %s", rec.Code, rec.Body.String())
	}
	settings := parseJSON(t, rec)["settings"].(map[string]interface{})
	if settings["emolument_rate"] != "0.0025" {
		t.Errorf("expected default emolument rate 0.0025, got %v", settings["emolument_rate"])
	}
	if settings["exercise_fee_rate"] != "0.0075" {
		t.Errorf("expected default exercise fee rate 0.0075, got %v", settings["exercise_fee_rate"])
	}

	// Partial update keeps the untouched defaults
	rec = app.request("PUT", "/api/v1/settings", `{"brokerage_fee":"12.50"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update settings failed: %d %s", rec.Code, rec.Body.String())
	}
	settings = parseJSON(t, rec)["settings"].(map[string]interface{})
	if settings["brokerage_fee"] != "12.5" {
		t.Errorf("expected brokerage fee 12.5, got %v", settings["brokerage_fee"])
	}
	if settings["emolument_rate"] != "0.0025" {
		t.Errorf("expected emolument rate untouched, got %v", settings["emolument_rate"])
	}
}
