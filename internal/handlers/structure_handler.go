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

// StructureHandler handles structure-related requests.
type StructureHandler struct {
	structureService services.StructureServicer
	auditService     services.AuditServicer
}

// NewStructureHandler creates a new StructureHandler.
func NewStructureHandler(structureService services.StructureServicer, auditService services.AuditServicer) *StructureHandler {
	return &StructureHandler{structureService: structureService, auditService: auditService}
}

// LegPayload represents one leg in a structure request.
type LegPayload struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol" binding:"required,max=30"`
	Kind       string          `json:"kind" binding:"required,leg_kind"`
	Side       string          `json:"side" binding:"required,leg_side"`
	Strike     decimal.Decimal `json:"strike"`
	Premium    decimal.Decimal `json:"premium"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	SpotPrice  decimal.Decimal `json:"spot_price"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Expiration *time.Time      `json:"expiration"`

	MarginPct *decimal.Decimal `json:"margin_pct"`
}

// toModel converts the payload to a model leg.
func (p *LegPayload) toModel() models.OptionLeg {
	return models.OptionLeg{
		ID:         p.ID,
		Symbol:     p.Symbol,
		Kind:       models.LegKind(p.Kind),
		Side:       models.LegSide(p.Side),
		Strike:     p.Strike,
		Premium:    p.Premium,
		EntryPrice: p.EntryPrice,
		SpotPrice:  p.SpotPrice,
		Quantity:   p.Quantity,
		Expiration: p.Expiration,
		MarginPct:  p.MarginPct,
	}
}

func legsToModel(payloads []LegPayload) models.LegList {
	legs := make(models.LegList, 0, len(payloads))
	for i := range payloads {
		legs = append(legs, payloads[i].toModel())
	}
	return legs
}

// CreateStructureRequest represents the request payload for creating a structure.
type CreateStructureRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=100"`
	Legs         []LegPayload    `json:"legs" binding:"dive"`
	NetPremium   decimal.Decimal `json:"net_premium"`
	AssemblyCost decimal.Decimal `json:"assembly_cost"`
	Expiration   *time.Time      `json:"expiration"`
}

// UpdateStructureRequest represents the request payload for editing a
// structure that is still being built.
type UpdateStructureRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Legs         *[]LegPayload    `json:"legs" binding:"omitempty,dive"`
	NetPremium   *decimal.Decimal `json:"net_premium"`
	AssemblyCost *decimal.Decimal `json:"assembly_cost"`
	Expiration   *time.Time       `json:"expiration"`
}

// FinalizeStructureRequest carries the optional realized result posted to
// the ledger when finalizing.
type FinalizeStructureRequest struct {
	Result *decimal.Decimal `json:"result"`
}

// CreateStructure handles the creation of a new structure
// @Summary     Create a structure
// @Description Create a new structure in building status
// @Tags        structures
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateStructureRequest true "Structure details"
// @Success     201 {object} models.Structure "Structure created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /structures [post]
func (h *StructureHandler) CreateStructure(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	structure, err := h.structureService.CreateStructure(
		userID,
		req.Name,
		legsToModel(req.Legs),
		req.NetPremium,
		req.AssemblyCost,
		req.Expiration,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_STRUCTURE", "structure", structure.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "legs": len(req.Legs)})

	c.JSON(http.StatusCreated, gin.H{"structure": structure})
}

// GetUserStructures handles the retrieval of structures for a user
// @Summary     Get user structures
// @Description Get a paginated list of structures, optionally filtered by status
// @Tags        structures
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (building, active, closed, finalized)"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Structure] "Paginated structures"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /structures [get]
func (h *StructureHandler) GetUserStructures(c *gin.Context) {
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

	var status *models.StructureStatus
	if raw := c.Query("status"); raw != "" {
		s := models.StructureStatus(raw)
		switch s {
		case models.StructureStatusBuilding, models.StructureStatusActive,
			models.StructureStatusClosed, models.StructureStatusFinalized:
			status = &s
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid status filter"))
			return
		}
	}

	result, err := h.structureService.GetUserStructures(userID, status, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStructureByID handles the retrieval of a single structure
// @Summary     Get a structure
// @Description Get a structure by ID
// @Tags        structures
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Success     200 {object} models.Structure "Structure"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /structures/{id} [get]
func (h *StructureHandler) GetStructureByID(c *gin.Context) {
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

	structure, err := h.structureService.GetStructureByID(userID, structureID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"structure": structure})
}

// UpdateStructure handles edits to a building structure
// @Summary     Update a structure
// @Description Update a structure that is still being built
// @Tags        structures
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Param       request body UpdateStructureRequest true "Fields to update"
// @Success     200 {object} models.Structure "Structure updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Structure not editable"
// @Router      /structures/{id} [put]
func (h *StructureHandler) UpdateStructure(c *gin.Context) {
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

	var req UpdateStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.StructureUpdateFields{
		Name:         req.Name,
		NetPremium:   req.NetPremium,
		AssemblyCost: req.AssemblyCost,
		Expiration:   req.Expiration,
	}
	if req.Legs != nil {
		legs := legsToModel(*req.Legs)
		fields.Legs = &legs
	}

	structure, err := h.structureService.UpdateStructure(userID, structureID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"structure": structure})
}

// ActivateStructure transitions a structure from building to active
// @Summary     Activate a structure
// @Description Activate a building structure, posting its cost and premium to the ledger and entering custody
// @Tags        structures
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Success     200 {object} models.Structure "Structure activated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /structures/{id}/activate [post]
func (h *StructureHandler) ActivateStructure(c *gin.Context) {
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

	structure, err := h.structureService.Activate(userID, structureID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ACTIVATE_STRUCTURE", "structure", structure.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"structure": structure})
}

// FinalizeStructure transitions an active structure to finalized
// @Summary     Finalize a structure
// @Description Finalize an active structure, optionally posting its realized result
// @Tags        structures
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Param       request body FinalizeStructureRequest false "Realized result"
// @Success     200 {object} models.Structure "Structure finalized"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /structures/{id}/finalize [post]
func (h *StructureHandler) FinalizeStructure(c *gin.Context) {
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

	var req FinalizeStructureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	structure, err := h.structureService.Finalize(userID, structureID, req.Result)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "FINALIZE_STRUCTURE", "structure", structure.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"structure": structure})
}

// DeleteStructure handles explicit structure deletion
// @Summary     Delete a structure
// @Description Delete a structure by explicit user action
// @Tags        structures
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Success     204 "Structure deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /structures/{id} [delete]
func (h *StructureHandler) DeleteStructure(c *gin.Context) {
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

	if err := h.structureService.DeleteStructure(userID, structureID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_STRUCTURE", "structure", structureID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
