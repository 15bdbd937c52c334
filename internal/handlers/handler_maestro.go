package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// maestroHandler handles HTTP requests for ledger accounts.
type maestroHandler struct {
	maestroService portssvc.MaestroSvcFacade
}

func newMaestroHandler(ms portssvc.MaestroSvcFacade) *maestroHandler {
	return &maestroHandler{maestroService: ms}
}

// registerMaestroRoutes registers routes related to ledger accounts.
func registerMaestroRoutes(rg *gin.RouterGroup, maestroService portssvc.MaestroSvcFacade) {
	h := newMaestroHandler(maestroService)

	maestros := rg.Group("/ledger-accounts")
	{
		maestros.POST("", h.createMaestro)
		maestros.GET("", h.listMaestros)
		maestros.GET("/:id", h.getMaestroByID)
		maestros.PUT("/:id", h.updateMaestro)
		maestros.DELETE("/:id", h.deleteMaestro)
		maestros.GET("/:id/daily-balances", h.getDailyBalances)
	}
}

// createMaestro godoc
// @Summary Open a ledger account
// @Description Creates a named ledger account with an optional opening balance (admin only). Names are unique.
// @Tags ledger
// @Accept json
// @Produce json
// @Param account body dto.CreateMaestroRequest true "Account details"
// @Success 201 {object} dto.Envelope{data=dto.MaestroResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Name already in use"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger-accounts [post]
func (h *maestroHandler) createMaestro(c *gin.Context) {
	var req dto.CreateMaestroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	maestro, err := h.maestroService.CreateMaestro(c.Request.Context(), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to create ledger account")
		return
	}

	c.JSON(http.StatusCreated, dto.NewEnvelope(dto.ToMaestroResponse(maestro)))
}

// listMaestros godoc
// @Summary List ledger accounts
// @Description Retrieves all ledger accounts with their current balances.
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.MaestroResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger-accounts [get]
func (h *maestroHandler) listMaestros(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	maestros, err := h.maestroService.ListMaestros(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list ledger accounts")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListMaestroResponse(maestros)))
}

// getMaestroByID godoc
// @Summary Get a ledger account
// @Description Retrieves a single ledger account with its current balance.
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.Envelope{data=dto.MaestroResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger-accounts/{id} [get]
func (h *maestroHandler) getMaestroByID(c *gin.Context) {
	maestro, err := h.maestroService.GetMaestroByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve ledger account")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToMaestroResponse(maestro)))
}

// updateMaestro godoc
// @Summary Rename a ledger account
// @Description Updates the account name (admin only). Balances only move through movements.
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateMaestroRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.MaestroResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Name already in use"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger-accounts/{id} [put]
func (h *maestroHandler) updateMaestro(c *gin.Context) {
	var req dto.UpdateMaestroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	maestro, err := h.maestroService.UpdateMaestro(c.Request.Context(), c.Param("id"), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to update ledger account")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToMaestroResponse(maestro)))
}

// deleteMaestro godoc
// @Summary Delete a ledger account
// @Description Removes an account (admin only). Accounts with movements are protected and return a conflict.
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.Envelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Account has movements"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger-accounts/{id} [delete]
func (h *maestroHandler) deleteMaestro(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.maestroService.DeleteMaestro(c.Request.Context(), c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err, "Failed to delete ledger account")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(nil))
}

// getDailyBalances godoc
// @Summary Day-end balances
// @Description Reports the account's end-of-day balance for each of the last N days, most recent last.
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Param days query int false "Number of days" default(30)
// @Success 200 {object} dto.Envelope{data=[]dto.DailyBalanceResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger-accounts/{id}/daily-balances [get]
func (h *maestroHandler) getDailyBalances(c *gin.Context) {
	var params dto.DailyBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	balances, err := h.maestroService.GetDailyBalances(c.Request.Context(), c.Param("id"), params.Days)
	if err != nil {
		respondError(c, err, "Failed to compute daily balances")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToDailyBalanceResponses(balances)))
}
