package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/services"
)

// CashFlowHandler handles cash-flow ledger and treasury summary requests.
type CashFlowHandler struct {
	treasuryService services.TreasuryServicer
	auditService    services.AuditServicer
}

// NewCashFlowHandler creates a new CashFlowHandler.
func NewCashFlowHandler(treasuryService services.TreasuryServicer, auditService services.AuditServicer) *CashFlowHandler {
	return &CashFlowHandler{treasuryService: treasuryService, auditService: auditService}
}

// CreateCashFlowEntryRequest represents the request payload for a manual
// ledger entry.
type CreateCashFlowEntryRequest struct {
	Date               time.Time       `json:"date" binding:"required"`
	Type               string          `json:"type" binding:"required,cash_flow_type"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Description        string          `json:"description" binding:"max=255"`
	RelatedStructureID *string         `json:"related_structure_id" binding:"omitempty,uuid"`
	RelatedRollID      *string         `json:"related_roll_id" binding:"omitempty,uuid"`
}

// CreateCashFlowEntry records a manual ledger entry
// @Summary     Create a cash-flow entry
// @Description Record a manual ledger entry and recompute running balances
// @Tags        cashflow
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCashFlowEntryRequest true "Entry details"
// @Success     201 {object} models.CashFlowEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /cashflow [post]
func (h *CashFlowHandler) CreateCashFlowEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCashFlowEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.treasuryService.CreateCashFlowEntry(
		userID,
		req.Date,
		models.CashFlowType(req.Type),
		req.Amount,
		req.Description,
		req.RelatedStructureID,
		req.RelatedRollID,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CASH_FLOW_ENTRY", "cash_flow_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetCashFlow lists the user's ledger entries
// @Summary     Get the cash-flow ledger
// @Description Get a paginated list of ledger entries ordered by date
// @Tags        cashflow
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Param       order     query string false "Sort order (asc, desc)"
// @Success     200 {object} pagination.PageResponse[models.CashFlowEntry] "Paginated entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /cashflow [get]
func (h *CashFlowHandler) GetCashFlow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.treasuryService.GetCashFlow(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteCashFlowEntry removes a ledger entry
// @Summary     Delete a cash-flow entry
// @Description Delete a ledger entry and recompute running balances
// @Tags        cashflow
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     204 "Entry deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /cashflow/{id} [delete]
func (h *CashFlowHandler) DeleteCashFlowEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.treasuryService.DeleteCashFlowEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CASH_FLOW_ENTRY", "cash_flow_entry", entryID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetTreasurySummary returns the composed treasury view
// @Summary     Get the treasury summary
// @Description Get current balance, custody values, exposure, and guarantee figures
// @Tags        cashflow
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} valuation.TreasurySummary "Treasury summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /treasury/summary [get]
func (h *CashFlowHandler) GetTreasurySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.treasuryService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
