package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/services"
	"opcoes/internal/valuation"
)

func setupCashFlowRouter(svc services.TreasuryServicer) *gin.Engine {
	handler := NewCashFlowHandler(svc, &mockAuditService{})
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/cashflow", handler.CreateCashFlowEntry)
	r.GET("/cashflow", handler.GetCashFlow)
	r.DELETE("/cashflow/:id", handler.DeleteCashFlowEntry)
	r.GET("/treasury/summary", handler.GetTreasurySummary)
	return r
}

func TestCashFlowHandler_CreateCashFlowEntry(t *testing.T) {
	t.Run("returns 201 and forwards the entry", func(t *testing.T) {
		var gotType models.CashFlowType
		var gotAmount decimal.Decimal
		var gotDate time.Time
		svc := &mockTreasuryService{
			createEntryFn: func(_ string, date time.Time, entryType models.CashFlowType, amount decimal.Decimal, _ string, _, _ *string) (*models.CashFlowEntry, error) {
				gotType, gotAmount, gotDate = entryType, amount, date
				return &models.CashFlowEntry{Base: models.Base{ID: testResourceID}, Type: entryType, Amount: amount}, nil
			},
		}
		r := setupCashFlowRouter(svc)

		body := `{"date": "2026-08-01T00:00:00Z", "type": "deposit", "amount": "1000", "description": "initial funding"}`
		rec := doRequest(r, http.MethodPost, "/cashflow", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotType != models.CashFlowTypeDeposit {
			t.Errorf("unexpected type: %s", gotType)
		}
		if gotAmount.String() != "1000" {
			t.Errorf("unexpected amount: %s", gotAmount)
		}
		if gotDate.IsZero() {
			t.Error("expected date to be parsed")
		}
		result := parseJSON(t, rec)
		if result["entry"] == nil {
			t.Error("expected entry in response")
		}
	})

	t.Run("returns 400 on unknown entry type", func(t *testing.T) {
		r := setupCashFlowRouter(&mockTreasuryService{})

		body := `{"date": "2026-08-01T00:00:00Z", "type": "dividend", "amount": "10"}`
		rec := doRequest(r, http.MethodPost, "/cashflow", body)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed related structure id", func(t *testing.T) {
		r := setupCashFlowRouter(&mockTreasuryService{})

		body := `{"date": "2026-08-01T00:00:00Z", "type": "deposit", "amount": "10", "related_structure_id": "nope"}`
		rec := doRequest(r, http.MethodPost, "/cashflow", body)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCashFlowHandler_DeleteCashFlowEntry(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var deleted string
		svc := &mockTreasuryService{
			deleteEntryFn: func(_, entryID string) error {
				deleted = entryID
				return nil
			},
		}
		r := setupCashFlowRouter(svc)

		rec := doRequest(r, http.MethodDelete, "/cashflow/"+testResourceID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if deleted != testResourceID {
			t.Errorf("expected entry %s deleted, got %s", testResourceID, deleted)
		}
	})

	t.Run("returns 404 when entry does not exist", func(t *testing.T) {
		svc := &mockTreasuryService{
			deleteEntryFn: func(_, _ string) error {
				return apperrors.ErrCashFlowEntryNotFound
			},
		}
		r := setupCashFlowRouter(svc)

		rec := doRequest(r, http.MethodDelete, "/cashflow/"+testResourceID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CASH_FLOW_ENTRY_NOT_FOUND")
	})
}

func TestCashFlowHandler_GetTreasurySummary(t *testing.T) {
	svc := &mockTreasuryService{
		getSummaryFn: func(userID string) (*valuation.TreasurySummary, error) {
			if userID != testUserID {
				t.Errorf("unexpected user ID: %s", userID)
			}
			return &valuation.TreasurySummary{
				CurrentBalance: decimal.NewFromInt(1000),
				StockValue:     decimal.NewFromInt(1200),
				TotalBalance:   decimal.NewFromInt(2200),
			}, nil
		},
	}
	r := setupCashFlowRouter(svc)

	rec := doRequest(r, http.MethodGet, "/treasury/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	summary, ok := result["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected summary object, got: %v", result)
	}
	if summary["total_balance"] != "2200" {
		t.Errorf("expected total_balance 2200, got %v", summary["total_balance"])
	}
}
