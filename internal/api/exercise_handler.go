package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

// ExerciseHandler exposes the read-only exercise catalog.
type ExerciseHandler struct {
	catalog repository.ExerciseCatalog
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalog repository.ExerciseCatalog) *ExerciseHandler {
	return &ExerciseHandler{catalog: catalog}
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Exercise "List of exercises"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalog.ListExercises(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	if exercises == nil {
		c.JSON(http.StatusOK, []domain.Exercise{}) // Return empty array
		return
	}
	c.JSON(http.StatusOK, exercises)
}
