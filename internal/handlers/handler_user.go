package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// userHandler handles HTTP requests for user management.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/stats", h.getUserStats)
		users.GET("/me", h.getCurrentUser)
		users.GET("/:id", h.getUserByID)
		users.PUT("/:id", h.updateUser)
		users.PUT("/:id/role", h.updateUserRole)
		users.DELETE("/:id", h.deleteUser)
	}
}

// listUsers godoc
// @Summary List users
// @Description Retrieves a paginated list of users (admin only).
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.UserResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	_, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actorRole, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListUserResponse(users)))
}

// getUserStats godoc
// @Summary User statistics
// @Description Reports user totals by role (admin only).
// @Tags users
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.UserStatsResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/stats [get]
func (h *userHandler) getUserStats(c *gin.Context) {
	_, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	stats, err := h.userService.GetUserStats(c.Request.Context(), actorRole)
	if err != nil {
		respondError(c, err, "Failed to compute user stats")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(stats))
}

// getCurrentUser godoc
// @Summary Get the authenticated user
// @Description Returns the profile of the caller.
// @Tags users
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), actorID, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToUserResponse(user)))
}

// getUserByID godoc
// @Summary Get a user
// @Description Retrieves a user profile. Borrowers may only see themselves.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUserByID(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToUserResponse(user)))
}

// updateUser godoc
// @Summary Update a user profile
// @Description Updates profile fields. Users edit themselves; admins edit anyone.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToUserResponse(user)))
}

// updateUserRole godoc
// @Summary Change a user's role
// @Description Promotes or demotes a user (admin only). Demoting the last remaining admin is a conflict.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param role body dto.UpdateUserRoleRequest true "New role"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Last admin"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/role [put]
func (h *userHandler) updateUserRole(c *gin.Context) {
	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateUserRole(c.Request.Context(), c.Param("id"), domain.UserRole(req.Role), actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to update user role")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToUserResponse(user)))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Soft-deletes a user (admin only). Admins cannot delete themselves or the last remaining admin.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Envelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Self delete or last admin"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(nil))
}
