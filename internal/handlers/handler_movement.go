package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// movementHandler handles HTTP requests for ledger movements.
type movementHandler struct {
	maestroService portssvc.MaestroSvcFacade
	userService    portssvc.UserSvcFacade
}

func newMovementHandler(ms portssvc.MaestroSvcFacade, us portssvc.UserSvcFacade) *movementHandler {
	return &movementHandler{maestroService: ms, userService: us}
}

// registerMovementRoutes registers routes related to ledger movements.
func registerMovementRoutes(rg *gin.RouterGroup, maestroService portssvc.MaestroSvcFacade, userService portssvc.UserSvcFacade) {
	h := newMovementHandler(maestroService, userService)

	movements := rg.Group("/movements")
	{
		movements.POST("", h.createMovement)
		movements.GET("", h.listMovements)
		movements.DELETE("/:id", h.deleteMovement)
	}
}

// createMovement godoc
// @Summary Record a ledger movement
// @Description Applies an ENTRADA or SALIDA to an account, atomically updating its balance (admin only). A SALIDA beyond the balance is a conflict.
// @Tags ledger
// @Accept json
// @Produce json
// @Param movement body dto.CreateMovementRequest true "Movement details"
// @Success 201 {object} dto.Envelope{data=dto.MovementResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Insufficient balance"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /movements [post]
func (h *movementHandler) createMovement(c *gin.Context) {
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	// The movement records who acted by display name, not just ID.
	actor, err := h.userService.GetUserByID(c.Request.Context(), actorID, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to resolve acting user")
		return
	}

	movement, err := h.maestroService.CreateMovement(c.Request.Context(), req, actorID, actor.Name, actorRole)
	if err != nil {
		respondError(c, err, "Failed to record movement")
		return
	}

	c.JSON(http.StatusCreated, dto.NewEnvelope(dto.ToMovementResponse(movement)))
}

// listMovements godoc
// @Summary List ledger movements
// @Description Lists movements newest first, optionally filtered to one account.
// @Tags ledger
// @Produce json
// @Param accountId query string false "Account ID filter"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.MovementResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /movements [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	movements, err := h.maestroService.ListMovements(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list movements")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListMovementResponse(movements)))
}

// deleteMovement godoc
// @Summary Delete a ledger movement
// @Description Removes the movement and reverses its balance effect (admin only). A reversal that would overdraw the account is a conflict.
// @Tags ledger
// @Produce json
// @Param id path string true "Movement ID"
// @Success 200 {object} dto.Envelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Reversal would overdraw the account"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /movements/{id} [delete]
func (h *movementHandler) deleteMovement(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.maestroService.DeleteMovement(c.Request.Context(), c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err, "Failed to delete movement")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(nil))
}
