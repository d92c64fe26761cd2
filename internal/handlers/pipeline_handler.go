package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/services"
)

// PipelineHandler handles requests from the market data pipeline.
type PipelineHandler struct {
	treasuryService services.TreasuryServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(treasuryService services.TreasuryServicer) *PipelineHandler {
	return &PipelineHandler{treasuryService: treasuryService}
}

// UpdatePricesRequest represents a batch of symbol prices from the pipeline.
type UpdatePricesRequest struct {
	Prices map[string]decimal.Decimal `json:"prices" binding:"required"`
}

// UpdatePricesResponse reports how many custody rows were touched.
type UpdatePricesResponse struct {
	Updated int `json:"updated"`
}

// UpdateMarketPrices applies a batch of market prices to custody assets
// @Summary     Update market prices
// @Description Apply a batch of symbol prices to all matching custody assets. Requires the pipeline API key.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body UpdatePricesRequest true "Symbol to price map"
// @Success     200 {object} UpdatePricesResponse "Rows updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing or invalid API key"
// @Router      /pipeline/prices [post]
func (h *PipelineHandler) UpdateMarketPrices(c *gin.Context) {
	var req UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if len(req.Prices) == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Empty price map"))
		return
	}

	updated, err := h.treasuryService.UpdateMarketPrices(req.Prices)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdatePricesResponse{Updated: updated})
}
