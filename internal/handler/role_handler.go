package handler

import (
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/permission"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	roles := router.Group("/api/roles")
	roles.Use(auth.Authenticate())
	{
		roles.GET("", auth.RequirePermission(permission.RolesRead), h.ListRoles)
		roles.GET("/:id", auth.RequirePermission(permission.RolesRead), h.GetRole)
		roles.POST("", auth.RequirePermission(permission.RolesWrite), h.CreateRole)
		roles.PUT("/:id", auth.RequirePermission(permission.RolesWrite), h.UpdateRole)
		roles.DELETE("/:id", auth.RequirePermission(permission.RolesDelete), h.DeleteRole)
		roles.PUT("/:id/permissions", auth.RequirePermission(permission.RolesWrite), h.SyncPermissions)
		roles.PUT("/:id/access-levels", auth.RequirePermission(permission.RolesWrite), h.SyncAccessLevels)
	}

	perms := router.Group("/api/permissions")
	perms.Use(auth.Authenticate(), auth.RequirePermission(permission.RolesRead))
	{
		perms.GET("", h.ListPermissions)
	}
}

// ListRoles godoc
// @Summary List all roles with permissions and user counts
// @Tags roles
// @Produce json
// @Success 200 {object} response.Response{data=[]service.RoleResponse}
// @Router /api/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}

// GetRole godoc
// @Summary Get a role by ID
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Response{data=service.RoleResponse}
// @Failure 404 {object} response.Response
// @Router /api/roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.roleService.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// CreateRole godoc
// @Summary Create a new role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body service.CreateRoleRequest true "New role"
// @Success 201 {object} response.Response{data=service.RoleResponse}
// @Failure 400 {object} response.Response
// @Router /api/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, role))
}

// UpdateRole godoc
// @Summary Update a role's name, slug or description
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body service.UpdateRoleRequest true "Changes"
// @Success 200 {object} response.Response{data=service.RoleResponse}
// @Failure 409 {object} response.Response
// @Router /api/roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// DeleteRole godoc
// @Summary Delete a role with no assigned users
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	if err := h.roleService.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Role deleted successfully"}))
}

// SyncPermissions godoc
// @Summary Replace a role's permissions by permission ID
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body service.SyncPermissionsRequest true "Permission IDs"
// @Success 200 {object} response.Response{data=service.RoleResponse}
// @Failure 422 {object} response.Response
// @Router /api/roles/{id}/permissions [put]
func (h *RoleHandler) SyncPermissions(c *gin.Context) {
	var req service.SyncPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.roleService.SyncPermissions(c.Request.Context(), c.Param("id"), req.PermissionIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// SyncAccessLevels godoc
// @Summary Replace a role's permissions from per-group access levels
// @Description Levels map resource groups to 0 (none), 1 (read), 2 (write) or 3 (delete).
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body service.SyncAccessLevelsRequest true "Group access levels"
// @Success 200 {object} response.Response{data=service.RoleResponse}
// @Failure 422 {object} response.Response
// @Router /api/roles/{id}/access-levels [put]
func (h *RoleHandler) SyncAccessLevels(c *gin.Context) {
	var req service.SyncAccessLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	role, err := h.roleService.SyncAccessLevels(c.Request.Context(), c.Param("id"), req.AccessLevels)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// ListPermissions godoc
// @Summary List the permission catalogue grouped by resource
// @Tags roles
// @Produce json
// @Success 200 {object} response.Response{data=[]service.PermissionResponse}
// @Router /api/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	perms, err := h.roleService.ListPermissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, perms))
}
