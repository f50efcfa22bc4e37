package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nitesh-dev/gymmora-sub000/internal/service"
	"github.com/nitesh-dev/gymmora-sub000/internal/workout"
)

// SessionHandler drives live workout sessions.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request Structs ---

// StartSessionRequest starts from a plan day when DayID is set, otherwise
// from the listed exercises.
type StartSessionRequest struct {
	DayID     string               `json:"dayId"`
	Exercises []service.AdHocEntry `json:"exercises"`
}

type ToggleSetRequest struct {
	ExerciseID int64 `json:"exerciseId" binding:"required"`
	SetIndex   *int  `json:"setIndex" binding:"required"`
}

type UpdateSetRequest struct {
	ExerciseID int64   `json:"exerciseId" binding:"required"`
	SetIndex   *int    `json:"setIndex" binding:"required"`
	Weight     *string `json:"weight"`
	Reps       *int    `json:"reps"`
}

// --- Handler Methods ---

// StartSession godoc
// @Summary Start a workout session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body StartSessionRequest true "Day or ad-hoc exercises"
// @Success 201 {object} workout.Snapshot
// @Failure 400 {object} gin.H "Rest day or invalid exercises"
// @Failure 404 {object} gin.H "Day not found"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var (
		snap *workout.Snapshot
		err  error
	)
	if req.DayID != "" {
		snap, err = h.sessionService.Start(c.Request.Context(), ownerID, req.DayID)
	} else {
		snap, err = h.sessionService.StartAdHoc(c.Request.Context(), ownerID, req.Exercises)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetSession godoc
// @Summary Get the current state of a live session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} workout.Snapshot
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	h.snapshotAction(c, h.sessionService.Get)
}

func (h *SessionHandler) PauseSession(c *gin.Context) {
	h.snapshotAction(c, h.sessionService.Pause)
}

func (h *SessionHandler) ResumeSession(c *gin.Context) {
	h.snapshotAction(c, h.sessionService.Resume)
}

// FinishSession godoc
// @Summary Finish a session and store its completed sets
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 400 {object} gin.H "No completed sets"
// @Failure 409 {object} gin.H "Session is not live or paused"
// @Router /sessions/{sessionId}/finish [post]
func (h *SessionHandler) FinishSession(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Finish(c.Request.Context(), ownerID, c.Param("sessionId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) AbandonSession(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	if err := h.sessionService.Abandon(c.Request.Context(), ownerID, c.Param("sessionId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleSet godoc
// @Summary Flip the completion flag of one set
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param set body ToggleSetRequest true "Set to toggle"
// @Success 200 {object} workout.Snapshot
// @Router /sessions/{sessionId}/sets/toggle [post]
func (h *SessionHandler) ToggleSet(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	var req ToggleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	snap, err := h.sessionService.ToggleSet(c.Request.Context(), ownerID, c.Param("sessionId"), req.ExerciseID, *req.SetIndex)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateSet godoc
// @Summary Change the weight and/or reps of a set that is not completed
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param set body UpdateSetRequest true "New values"
// @Success 200 {object} workout.Snapshot
// @Router /sessions/{sessionId}/sets [patch]
func (h *SessionHandler) UpdateSet(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	patch := workout.SetPatch{Weight: req.Weight, Reps: req.Reps}
	snap, err := h.sessionService.UpdateSet(c.Request.Context(), ownerID, c.Param("sessionId"), req.ExerciseID, *req.SetIndex, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type snapshotFunc func(ctx context.Context, ownerID, sessionID string) (*workout.Snapshot, error)

func (h *SessionHandler) snapshotAction(c *gin.Context, fn snapshotFunc) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	snap, err := fn(c.Request.Context(), ownerID, c.Param("sessionId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
