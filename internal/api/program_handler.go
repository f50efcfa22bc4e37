package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
)

// ProgramHandler serves plan management, import and export.
type ProgramHandler struct {
	programService service.ProgramService
	importService  service.ImportService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService, importService service.ImportService) *ProgramHandler {
	return &ProgramHandler{programService: programService, importService: importService}
}

// --- Response Structs ---

type ImportBatchResponse struct {
	Imported int                    `json:"imported"`
	Rejected int                    `json:"rejected"`
	Results  []service.ImportResult `json:"results"`
}

// --- Handler Methods ---

// CreateProgram godoc
// @Summary Create a program from a normalized document
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Plan
// @Failure 400 {object} gin.H "Validation error"
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	var doc domain.ProgramDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.programService.CreateProgram(c.Request.Context(), ownerID, doc)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ImportPrograms godoc
// @Summary Import one raw program document or an array of them
// @Description Accepts every supported import shape. Each document is imported on its own.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ImportBatchResponse
// @Failure 400 {object} gin.H "Body is not a document or array of documents"
// @Router /programs/import [post]
func (h *ProgramHandler) ImportPrograms(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read request body.")
		return
	}

	results, err := h.importService.ImportBatch(c.Request.Context(), ownerID, raw)
	if err != nil && results == nil {
		respondWithError(c, err)
		return
	}

	resp := ImportBatchResponse{Results: results}
	for _, r := range results {
		if r.Status == service.ImportStatusImported {
			resp.Imported++
		} else {
			resp.Rejected++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListPrograms godoc
// @Summary List the caller's plans
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Plan
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	plans, err := h.programService.ListPlans(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetProgram godoc
// @Summary Get the full structure of a plan
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.ProgramStructure
// @Failure 404 {object} gin.H "Plan not found"
// @Router /programs/{planId} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	structure, err := h.programService.GetFullStructure(c.Request.Context(), c.Param("planId"))
	if err == nil && structure.Plan.OwnerID != ownerID {
		err = &domain.NotFoundError{Entity: "plan", ID: c.Param("planId")}
	}
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, structure)
}

// ReplaceStructure godoc
// @Summary Replace every week, day and slot of a plan
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.Plan
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /programs/{planId}/structure [put]
func (h *ProgramHandler) ReplaceStructure(c *gin.Context) {
	if !h.ownsPlan(c) {
		return
	}
	var doc domain.ProgramDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.programService.ReplaceProgramStructure(c.Request.Context(), c.Param("planId"), doc)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ActivateProgram godoc
// @Summary Make a plan the caller's only active plan
// @Tags Programs
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 204
// @Failure 404 {object} gin.H "Plan not found"
// @Router /programs/{planId}/activate [post]
func (h *ProgramHandler) ActivateProgram(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	if err := h.programService.ActivatePlan(c.Request.Context(), ownerID, c.Param("planId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteProgram godoc
// @Summary Delete a plan with all of its weeks, days and slots
// @Tags Programs
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 204
// @Failure 404 {object} gin.H "Plan not found"
// @Router /programs/{planId} [delete]
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	if !h.ownsPlan(c) {
		return
	}
	if err := h.programService.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportProgram godoc
// @Summary Export a plan as a normalized document
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.ProgramDocument
// @Failure 404 {object} gin.H "Plan not found"
// @Router /programs/{planId}/export [get]
func (h *ProgramHandler) ExportProgram(c *gin.Context) {
	if !h.ownsPlan(c) {
		return
	}
	doc, err := h.importService.Export(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ArchiveExport godoc
// @Summary Store an export in object storage and return a download link
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 201 {object} service.ArchivedExport
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 503 {object} gin.H "Archiving not configured"
// @Router /programs/{planId}/export/archive [post]
func (h *ProgramHandler) ArchiveExport(c *gin.Context) {
	if !h.ownsPlan(c) {
		return
	}
	archived, err := h.importService.ArchiveExport(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, archived)
}

// ownsPlan aborts with 404 unless the plan in the path belongs to the caller.
func (h *ProgramHandler) ownsPlan(c *gin.Context) bool {
	ownerID, ok := mustOwner(c)
	if !ok {
		return false
	}
	planID := c.Param("planId")
	plan, err := h.programService.GetPlan(c.Request.Context(), planID)
	if err == nil && plan.OwnerID != ownerID {
		err = &domain.NotFoundError{Entity: "plan", ID: planID}
	}
	if err != nil {
		respondWithError(c, err)
		return false
	}
	return true
}
