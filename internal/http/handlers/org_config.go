package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafiki-work/rafiki-backend/internal/http/response"
	"github.com/rafiki-work/rafiki-backend/internal/services"
	"github.com/rafiki-work/rafiki-backend/internal/services/guidedpath"
)

type OrgConfigHandler struct {
	config services.OrgConfigService
}

func NewOrgConfigHandler(config services.OrgConfigService) *OrgConfigHandler {
	return &OrgConfigHandler{config: config}
}

// GET /api/v1/org-config/profile
func (h *OrgConfigHandler) GetProfile(c *gin.Context) {
	profile, err := h.config.GetOrgProfile(reqCtx(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

// PUT /api/v1/org-config/profile
func (h *OrgConfigHandler) UpdateProfile(c *gin.Context) {
	var patch guidedpath.OrgProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	profile, err := h.config.UpdateOrgProfile(reqCtx(c), patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

// GET /api/v1/org-config/roles
func (h *OrgConfigHandler) ListRoles(c *gin.Context) {
	roles, err := h.config.ListRoles(reqCtx(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roles": roles})
}

// POST /api/v1/org-config/roles
func (h *OrgConfigHandler) CreateRole(c *gin.Context) {
	var in guidedpath.RoleProfileInput
	if !bindJSON(c, &in) {
		return
	}
	role, err := h.config.CreateRole(reqCtx(c), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"role": role})
}

// GET /api/v1/org-config/roles/:role_key
func (h *OrgConfigHandler) GetRole(c *gin.Context) {
	role, err := h.config.GetRole(reqCtx(c), c.Param("role_key"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"role": role})
}

// PUT /api/v1/org-config/roles/:role_key
func (h *OrgConfigHandler) UpdateRole(c *gin.Context) {
	var patch guidedpath.RoleProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	role, err := h.config.UpdateRole(reqCtx(c), c.Param("role_key"), patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"role": role})
}

// DELETE /api/v1/org-config/roles/:role_key
func (h *OrgConfigHandler) DeleteRole(c *gin.Context) {
	if err := h.config.DeleteRole(reqCtx(c), c.Param("role_key")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
