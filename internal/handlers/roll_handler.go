package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/pagination"
	"opcoes/internal/services"
	"opcoes/internal/valuation"
)

// RollHandler handles roll-related requests.
type RollHandler struct {
	rollService  services.RollServicer
	auditService services.AuditServicer
}

// NewRollHandler creates a new RollHandler.
func NewRollHandler(rollService services.RollServicer, auditService services.AuditServicer) *RollHandler {
	return &RollHandler{rollService: rollService, auditService: auditService}
}

// RollDecisionPayload represents the per-leg decision in a roll request.
type RollDecisionPayload struct {
	LegID         string          `json:"leg_id" binding:"required,uuid"`
	Action        string          `json:"action" binding:"required,roll_action"`
	ExitPrice     decimal.Decimal `json:"exit_price"`
	NewStrike     decimal.Decimal `json:"new_strike"`
	NewPremium    decimal.Decimal `json:"new_premium"`
	NewExpiration *time.Time      `json:"new_expiration"`
}

// ExercisePayload represents an exercise settled together with a roll,
// or a standalone exercise request.
type ExercisePayload struct {
	LegIDs        []string         `json:"leg_ids" binding:"required,min=1,dive,uuid"`
	ExercisePrice decimal.Decimal  `json:"exercise_price" binding:"required"`
	FeeRate       *decimal.Decimal `json:"fee_rate"`
}

// CreateRollRequest represents the request payload for committing a roll.
type CreateRollRequest struct {
	Decisions []RollDecisionPayload `json:"decisions" binding:"required,min=1,dive"`
	Brokerage *decimal.Decimal      `json:"brokerage"`
	Exercise  *ExercisePayload      `json:"exercise"`
}

func (r *CreateRollRequest) toService() services.RollRequest {
	req := services.RollRequest{Brokerage: r.Brokerage}
	for _, d := range r.Decisions {
		req.Decisions = append(req.Decisions, valuation.RollDecision{
			LegID:         d.LegID,
			Action:        valuation.RollAction(d.Action),
			ExitPrice:     d.ExitPrice,
			NewStrike:     d.NewStrike,
			NewPremium:    d.NewPremium,
			NewExpiration: d.NewExpiration,
		})
	}
	if r.Exercise != nil {
		req.Exercise = &services.ExerciseRequest{
			LegIDs:        r.Exercise.LegIDs,
			ExercisePrice: r.Exercise.ExercisePrice,
			FeeRate:       r.Exercise.FeeRate,
		}
	}
	return req
}

// CreateRoll commits a roll against an active structure
// @Summary     Roll a structure
// @Description Roll one or more legs of an active structure, posting the roll cost and realized profit to the ledger
// @Tags        rolls
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Param       request body CreateRollRequest true "Roll decisions"
// @Success     201 {object} models.RollPosition "Roll committed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Structure not found"
// @Failure     409 {object} ErrorResponse "Structure not active"
// @Failure     422 {object} ErrorResponse "Roll validation failed"
// @Router      /structures/{id}/rolls [post]
func (h *RollHandler) CreateRoll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	structureID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	roll, err := h.rollService.CreateRoll(userID, structureID, req.toService())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ROLL", "roll", roll.ID, c.ClientIP(),
		map[string]interface{}{"structure_id": structureID, "decisions": len(req.Decisions)})

	c.JSON(http.StatusCreated, gin.H{"roll": roll})
}

// GetStructureRolls lists the rolls of a structure
// @Summary     Get structure rolls
// @Description Get a paginated list of rolls for a structure
// @Tags        rolls
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Structure ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RollPosition] "Paginated rolls"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Structure not found"
// @Router      /structures/{id}/rolls [get]
func (h *RollHandler) GetStructureRolls(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	structureID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.rollService.GetStructureRolls(userID, structureID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRollByID retrieves a single roll
// @Summary     Get a roll
// @Description Get a roll by ID, including an exercise settled with it
// @Tags        rolls
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Roll ID"
// @Success     200 {object} models.RollPosition "Roll"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /rolls/{id} [get]
func (h *RollHandler) GetRollByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rollID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	roll, err := h.rollService.GetRollByID(userID, rollID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roll": roll})
}

// DeleteRoll removes a roll and its ledger entries
// @Summary     Delete a roll
// @Description Delete a roll, removing its ledger entries and recomputing balances
// @Tags        rolls
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Roll ID"
// @Success     204 "Roll deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /rolls/{id} [delete]
func (h *RollHandler) DeleteRoll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rollID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.rollService.DeleteRoll(userID, rollID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ROLL", "roll", rollID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
