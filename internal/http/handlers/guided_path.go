package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafiki-work/rafiki-backend/internal/http/response"
	"github.com/rafiki-work/rafiki-backend/internal/services"
	"github.com/rafiki-work/rafiki-backend/internal/services/guidedpath"
)

type GuidedPathHandler struct {
	catalog services.CatalogService
	engine  services.SessionEngine
}

func NewGuidedPathHandler(catalog services.CatalogService, engine services.SessionEngine) *GuidedPathHandler {
	return &GuidedPathHandler{catalog: catalog, engine: engine}
}

// GET /api/v1/guided-paths/modules?active_only=
func (h *GuidedPathHandler) ListModules(c *gin.Context) {
	modules, err := h.catalog.List(reqCtx(c), queryBool(c, "active_only", true))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": modules})
}

// GET /api/v1/guided-paths/modules/:id
func (h *GuidedPathHandler) GetModule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	module, err := h.catalog.Get(reqCtx(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"module": module})
}

// POST /api/v1/guided-paths/suggest
// Filters come from the JSON body, falling back to the query string.
func (h *GuidedPathHandler) Suggest(c *gin.Context) {
	var q guidedpath.SuggestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if !bindOptionalJSON(c, &q) {
		return
	}
	res, err := h.catalog.Suggest(reqCtx(c), q)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/v1/guided-paths/themes/recent
func (h *GuidedPathHandler) RecentThemes(c *gin.Context) {
	themes, err := h.catalog.RecentThemes(reqCtx(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"themes": themes})
}

// POST /api/v1/guided-paths/modules/:id/start
func (h *GuidedPathHandler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in guidedpath.StartInput
	if !bindOptionalJSON(c, &in) {
		return
	}
	step, err := h.engine.Start(reqCtx(c), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, step)
}

// GET /api/v1/guided-paths/sessions/:id
func (h *GuidedPathHandler) GetSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.engine.Get(reqCtx(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": summary})
}

// GET /api/v1/guided-paths/sessions/:id/step
func (h *GuidedPathHandler) CurrentStep(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	step, err := h.engine.CurrentStep(reqCtx(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, step)
}

// POST /api/v1/guided-paths/sessions/:id/advance
func (h *GuidedPathHandler) Advance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in guidedpath.AdvanceInput
	if !bindOptionalJSON(c, &in) {
		return
	}
	res, err := h.engine.Advance(reqCtx(c), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if res.Completed {
		response.RespondOK(c, res)
		return
	}
	response.RespondOK(c, res.Next)
}

// POST /api/v1/guided-paths/sessions/:id/outcome
func (h *GuidedPathHandler) RecordOutcome(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in guidedpath.OutcomeInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.engine.RecordOutcome(reqCtx(c), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/v1/guided-paths/sessions/:id/abandon
func (h *GuidedPathHandler) Abandon(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.engine.Abandon(reqCtx(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": summary})
}
