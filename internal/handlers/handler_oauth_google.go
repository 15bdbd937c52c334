package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
	"github.com/ricerca-labs/biblioteca_backend/internal/middleware"
)

const googleProviderName = "google"

// GoogleOAuthHandler handles the Google sign-in flow used by the dashboard.
type GoogleOAuthHandler struct {
	authHandler   *AuthHandler
	userService   portssvc.UserSvcFacade
	googleService portssvc.GoogleOAuthSvcFacade
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(ah *AuthHandler, us portssvc.UserSvcFacade, gs portssvc.GoogleOAuthSvcFacade) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		authHandler:   ah,
		userService:   us,
		googleService: gs,
	}
}

// ExchangeGoogleCode godoc
// @Summary Exchange a Google authorization code for app tokens
// @Description The dashboard sends the authorization code it received from Google; the backend exchanges it, resolves or creates the local user and issues the app's own token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/google/exchange [post]
func (h *GoogleOAuthHandler) ExchangeGoogleCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, err := h.googleService.ExchangeCodeForToken(c.Request.Context(), req.Code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid authorization code"})
		return
	}

	info, err := h.googleService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch user info"})
		return
	}

	// When Google also returned an ID token, verify it matches the userinfo
	// subject before trusting the identity.
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		payload, err := h.googleService.ValidateGoogleIDToken(c.Request.Context(), rawIDToken)
		if err != nil || payload.Subject != info.ID {
			logger.Warn("Google ID token validation failed")
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid Google identity"})
			return
		}
	}

	user, err := h.userService.FindOrCreateOAuthUser(c.Request.Context(), googleProviderName, *info)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}

	h.authHandler.issueTokens(c, user, http.StatusOK)
}
