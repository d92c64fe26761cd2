package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/pagination"
	"opcoes/internal/services"
)

// maxImportSize caps uploaded CSV files at 5 MiB.
const maxImportSize = 5 << 20

// OperationHandler handles trading operation uploads.
type OperationHandler struct {
	operationService services.OperationServicer
	auditService     services.AuditServicer
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationService services.OperationServicer, auditService services.AuditServicer) *OperationHandler {
	return &OperationHandler{operationService: operationService, auditService: auditService}
}

// ImportOperations imports realized operations from a CSV upload
// @Summary     Import operations from CSV
// @Description Upload a CSV of realized operations for a structure. Valid rows are imported, invalid rows reported with line numbers.
// @Tags        operations
// @Accept      mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       id   path     string true "Structure ID"
// @Param       file formData file   true "CSV file"
// @Success     200 {object} services.ImportResult "Import outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Structure not found"
// @Router      /structures/{id}/operations/import [post]
func (h *OperationHandler) ImportOperations(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing CSV file"))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "CSV file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	result, err := h.operationService.ImportCSV(userID, structureID, string(data))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "IMPORT_OPERATIONS", "structure", structureID, c.ClientIP(),
		map[string]interface{}{"imported": len(result.Imported), "rejected": len(result.Rejected)})

	c.JSON(http.StatusOK, result)
}

// GetStructureOperations lists the realized operations of a structure
// @Summary     Get structure operations
// @Description Get a paginated list of realized operations for a structure
// @Tags        operations
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Structure ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.TradingOperation] "Paginated operations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Structure not found"
// @Router      /structures/{id}/operations [get]
func (h *OperationHandler) GetStructureOperations(c *gin.Context) {
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

	result, err := h.operationService.GetStructureOperations(userID, structureID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
