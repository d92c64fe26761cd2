package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "opcoes/internal/errors"
	"opcoes/internal/pagination"
	"opcoes/internal/services"
)

// ExerciseHandler handles exercise-related requests.
type ExerciseHandler struct {
	exerciseService services.ExerciseServicer
	auditService    services.AuditServicer
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService services.ExerciseServicer, auditService services.AuditServicer) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, auditService: auditService}
}

// CreateExercise records an exercise against an active structure
// @Summary     Exercise structure legs
// @Description Exercise selected option legs of an active structure, posting the exercise cost to the ledger
// @Tags        exercises
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Structure ID"
// @Param       request body ExercisePayload true "Exercise details"
// @Success     201 {object} models.ExerciseRecord "Exercise recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Structure not found"
// @Failure     409 {object} ErrorResponse "Structure not active"
// @Failure     422 {object} ErrorResponse "No exercisable legs selected"
// @Router      /structures/{id}/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
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

	var req ExercisePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.exerciseService.CreateExercise(userID, structureID, services.ExerciseRequest{
		LegIDs:        req.LegIDs,
		ExercisePrice: req.ExercisePrice,
		FeeRate:       req.FeeRate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXERCISE", "exercise", record.ID, c.ClientIP(),
		map[string]interface{}{"structure_id": structureID, "legs": len(req.LegIDs)})

	c.JSON(http.StatusCreated, gin.H{"exercise": record})
}

// GetStructureExercises lists the exercises of a structure
// @Summary     Get structure exercises
// @Description Get a paginated list of exercise records for a structure
// @Tags        exercises
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Structure ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ExerciseRecord] "Paginated exercises"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Structure not found"
// @Router      /structures/{id}/exercises [get]
func (h *ExerciseHandler) GetStructureExercises(c *gin.Context) {
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

	result, err := h.exerciseService.GetStructureExercises(userID, structureID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExerciseByID retrieves a single exercise record
// @Summary     Get an exercise
// @Description Get an exercise record by ID
// @Tags        exercises
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Exercise ID"
// @Success     200 {object} models.ExerciseRecord "Exercise"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /exercises/{id} [get]
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	exerciseID, err := getPathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.exerciseService.GetExerciseByID(userID, exerciseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exercise": record})
}
