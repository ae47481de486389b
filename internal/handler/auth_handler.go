package handler

import (
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/requestctx"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	router.POST("/api/login", h.Login)
	router.POST("/api/refresh", h.Refresh)
	router.POST("/api/logout", h.Logout)

	me := router.Group("/api/me")
	me.Use(auth.Authenticate())
	{
		me.GET("", h.Me)
		me.PUT("", h.UpdateMe)
	}
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=service.TokenResponse}
// @Failure 401 {object} response.Response
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, tokens.Token, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=service.TokenResponse}
// @Failure 401 {object} response.Response
// @Router /api/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshTokenFrom(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Refresh token is missing"))
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		middleware.ClearTokenCookies(c)
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, tokens.Token, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout godoc
// @Summary Revoke the refresh token and clear session cookies
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.refreshTokenFrom(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			middleware.ClearTokenCookies(c)
			respondError(c, err)
			return
		}
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out successfully"}))
}

// Me godoc
// @Summary Return the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=service.UserResponse}
// @Failure 401 {object} response.Response
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor := requestctx.Actor(c.Request.Context())
	if actor == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actor.ID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateMe godoc
// @Summary Update the authenticated user's own profile
// @Description Only name, email, password and avatar may be changed here.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.UpdateUserRequest true "Profile changes"
// @Success 200 {object} response.Response{data=service.UserResponse}
// @Failure 400 {object} response.Response
// @Router /api/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	actor := requestctx.Actor(c.Request.Context())
	if actor == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	// Profile edits cannot change status or role, even for admins.
	req.Status = ""
	req.RoleID = nil

	user, err := h.userService.UpdateUser(c.Request.Context(), actor.ID.String(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// refreshTokenFrom reads the refresh token from the cookie, falling back
// to a JSON body for clients that do not use cookies.
func (h *AuthHandler) refreshTokenFrom(c *gin.Context) string {
	if token, err := c.Cookie("refresh_token"); err == nil && token != "" {
		return token
	}
	var req service.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}
