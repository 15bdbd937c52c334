package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// fineHandler handles HTTP requests for fines.
type fineHandler struct {
	fineService portssvc.FineSvcFacade
}

func newFineHandler(fs portssvc.FineSvcFacade) *fineHandler {
	return &fineHandler{fineService: fs}
}

// registerFineRoutes registers routes related to fines.
func registerFineRoutes(rg *gin.RouterGroup, fineService portssvc.FineSvcFacade) {
	h := newFineHandler(fineService)

	fines := rg.Group("/fines")
	{
		fines.POST("", h.createFine)
		fines.GET("", h.listFines)
		fines.GET("/:id", h.getFineByID)
		fines.PUT("/:id/pay", h.payFine)
		fines.POST("/sweep", h.sweepFines)
		fines.DELETE("/:id", h.deleteFine)
	}
}

// createFine godoc
// @Summary Create a fine manually
// @Description Records a fine against a loan (admin only). A loan carries at most one fine.
// @Tags fines
// @Accept json
// @Produce json
// @Param fine body dto.CreateFineRequest true "Fine details"
// @Success 201 {object} dto.Envelope{data=dto.FineResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already fined"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fines [post]
func (h *fineHandler) createFine(c *gin.Context) {
	var req dto.CreateFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	fine, err := h.fineService.CreateFine(c.Request.Context(), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to create fine")
		return
	}

	c.JSON(http.StatusCreated, dto.NewEnvelope(dto.ToFineResponse(fine)))
}

// listFines godoc
// @Summary List fines
// @Description Lists fines with loan and borrower context. Admins see every fine, borrowers only their own.
// @Tags fines
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.FineResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fines [get]
func (h *fineHandler) listFines(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	fines, err := h.fineService.ListFines(c.Request.Context(), params.Limit, params.Offset, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to list fines")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListFineResponse(fines)))
}

// getFineByID godoc
// @Summary Get a fine
// @Description Retrieves a single fine. Borrowers may only see fines on their own loans.
// @Tags fines
// @Produce json
// @Param id path string true "Fine ID"
// @Success 200 {object} dto.Envelope{data=dto.FineResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fines/{id} [get]
func (h *fineHandler) getFineByID(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	fine, err := h.fineService.GetFineByID(c.Request.Context(), c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to retrieve fine")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToFineResponse(fine)))
}

// payFine godoc
// @Summary Mark a fine as paid
// @Description Settles the fine (admin only). Paying a second time is a conflict.
// @Tags fines
// @Produce json
// @Param id path string true "Fine ID"
// @Success 200 {object} dto.Envelope{data=dto.FineResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already paid"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fines/{id}/pay [put]
func (h *fineHandler) payFine(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	fine, err := h.fineService.PayFine(c.Request.Context(), c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to pay fine")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToFineResponse(fine)))
}

// sweepFines godoc
// @Summary Run the overdue fine sweep
// @Description Creates one fine per overdue unreturned loan that has none yet (admin only). Safe to run repeatedly.
// @Tags fines
// @Accept json
// @Produce json
// @Param sweep body dto.SweepFinesRequest false "Sweep options"
// @Success 200 {object} dto.Envelope{data=[]dto.FineResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fines/sweep [post]
func (h *fineHandler) sweepFines(c *gin.Context) {
	var req dto.SweepFinesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
			return
		}
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	fines, err := h.fineService.SweepOverdueFines(c.Request.Context(), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to sweep fines")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListFineResponse(fines)))
}

// deleteFine godoc
// @Summary Delete a fine
// @Description Removes a fine (admin only).
// @Tags fines
// @Produce json
// @Param id path string true "Fine ID"
// @Success 200 {object} dto.Envelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /fines/{id} [delete]
func (h *fineHandler) deleteFine(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.fineService.DeleteFine(c.Request.Context(), c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err, "Failed to delete fine")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(nil))
}
