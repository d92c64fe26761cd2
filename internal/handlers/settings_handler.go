package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/services"
)

// SettingsHandler handles per-user trading settings requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the request payload for updating settings.
type UpdateSettingsRequest struct {
	BrokerageFee    *decimal.Decimal `json:"brokerage_fee"`
	EmolumentRate   *decimal.Decimal `json:"emolument_rate"`
	ExerciseFeeRate *decimal.Decimal `json:"exercise_fee_rate"`
}

// GetSettings returns the user's trading settings
// @Summary     Get settings
// @Description Get the user's trading settings, creating defaults if none exist
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Settings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings updates the user's trading settings
// @Summary     Update settings
// @Description Update brokerage and fee rates used by roll and exercise calculations
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Fields to update"
// @Success     200 {object} models.Settings "Settings updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateSettings(userID, req.BrokerageFee, req.EmolumentRate, req.ExerciseFeeRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
