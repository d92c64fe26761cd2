package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/models"
	"opcoes/internal/pagination"
	"opcoes/internal/services"
)

// AssetHandler handles custody asset requests.
type AssetHandler struct {
	treasuryService services.TreasuryServicer
	auditService    services.AuditServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(treasuryService services.TreasuryServicer, auditService services.AuditServicer) *AssetHandler {
	return &AssetHandler{treasuryService: treasuryService, auditService: auditService}
}

// CreateAssetRequest represents the request payload for adding a custody asset.
type CreateAssetRequest struct {
	Symbol            string          `json:"symbol" binding:"required,max=30"`
	Type              string          `json:"type" binding:"required,asset_type"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	AveragePrice      decimal.Decimal `json:"average_price"`
	MarketPrice       decimal.Decimal `json:"market_price"`
	GuaranteeReleased decimal.Decimal `json:"guarantee_released"`
}

// UpdateAssetRequest represents the request payload for editing a custody asset.
type UpdateAssetRequest struct {
	Quantity          *decimal.Decimal `json:"quantity"`
	AveragePrice      *decimal.Decimal `json:"average_price"`
	MarketPrice       *decimal.Decimal `json:"market_price"`
	GuaranteeReleased *decimal.Decimal `json:"guarantee_released"`
	UsedAsGuarantee   *bool            `json:"used_as_guarantee"`
}

// CreateAsset adds an asset to the user's custody
// @Summary     Create a custody asset
// @Description Add an asset position to the user's custody
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.treasuryService.CreateAsset(
		userID,
		req.Symbol,
		models.AssetType(req.Type),
		req.Quantity,
		req.AveragePrice,
		req.MarketPrice,
		req.GuaranteeReleased,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ASSET", "asset", asset.ID, c.ClientIP(),
		map[string]interface{}{"symbol": req.Symbol, "type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// GetUserAssets lists the user's custody assets
// @Summary     Get custody assets
// @Description Get a paginated list of the user's custody assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets [get]
func (h *AssetHandler) GetUserAssets(c *gin.Context) {
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

	result, err := h.treasuryService.GetUserAssets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAssetByID retrieves a single custody asset
// @Summary     Get a custody asset
// @Description Get a custody asset by ID
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAssetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.treasuryService.GetAssetByID(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdateAsset edits a custody asset
// @Summary     Update a custody asset
// @Description Update quantity, prices, or guarantee fields of a custody asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Param       request body UpdateAssetRequest true "Fields to update"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.treasuryService.UpdateAsset(userID, assetID, services.AssetUpdateFields{
		Quantity:          req.Quantity,
		AveragePrice:      req.AveragePrice,
		MarketPrice:       req.MarketPrice,
		GuaranteeReleased: req.GuaranteeReleased,
		UsedAsGuarantee:   req.UsedAsGuarantee,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes a custody asset
// @Summary     Delete a custody asset
// @Description Remove an asset from the user's custody
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     204 "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.treasuryService.DeleteAsset(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ASSET", "asset", assetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
