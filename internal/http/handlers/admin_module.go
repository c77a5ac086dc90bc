package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rafiki-work/rafiki-backend/internal/http/response"
	"github.com/rafiki-work/rafiki-backend/internal/services"
	"github.com/rafiki-work/rafiki-backend/internal/services/guidedpath"
)

type ModuleAdminHandler struct {
	admin services.ModuleAdminService
}

func NewModuleAdminHandler(admin services.ModuleAdminService) *ModuleAdminHandler {
	return &ModuleAdminHandler{admin: admin}
}

// POST /api/v1/guided-paths/admin/modules
func (h *ModuleAdminHandler) Create(c *gin.Context) {
	var in guidedpath.ModuleInput
	if !bindJSON(c, &in) {
		return
	}
	module, err := h.admin.Create(reqCtx(c), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"module": module})
}

// PUT /api/v1/guided-paths/admin/modules/:id
func (h *ModuleAdminHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch guidedpath.ModulePatch
	if !bindJSON(c, &patch) {
		return
	}
	module, err := h.admin.Update(reqCtx(c), id, patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"module": module})
}

// DELETE /api/v1/guided-paths/admin/modules/:id
// Deactivates; blueprints are never hard-deleted.
func (h *ModuleAdminHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	module, err := h.admin.Deactivate(reqCtx(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"module": module})
}

// POST /api/v1/guided-paths/admin/seed
func (h *ModuleAdminHandler) Seed(c *gin.Context) {
	created, err := h.admin.SeedCanonical(reqCtx(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"created": created, "count": len(created)})
}
