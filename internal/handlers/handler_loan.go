package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// loanHandler handles HTTP requests for loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// RegisterLoanRoutes registers routes related to loans.
func RegisterLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:id", h.getLoanByID)
		loans.PUT("/:id/return", h.returnLoan)
		loans.DELETE("/:id", h.deleteLoan)
	}
}

// createLoan godoc
// @Summary Check a book out
// @Description Creates a loan for the authenticated borrower and decrements the book's available copies. Fails with 409 when no copies are left.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan details"
// @Success 201 {object} dto.Envelope{data=dto.LoanResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 409 {object} dto.ErrorResponse "No copies available"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to create loan")
		return
	}

	c.JSON(http.StatusCreated, dto.NewEnvelope(dto.ToLoanResponse(loan)))
}

// listLoans godoc
// @Summary List loans
// @Description Lists loans with book and borrower context. Admins see every loan, borrowers only their own.
// @Tags loans
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.LoanResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	loans, err := h.loanService.ListLoans(c.Request.Context(), params, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListLoanResponse(loans)))
}

// getLoanByID godoc
// @Summary Get a loan
// @Description Retrieves a single loan. Borrowers may only see their own loans.
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.Envelope{data=dto.LoanResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoanByID(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to retrieve loan")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToLoanResponse(loan)))
}

// returnLoan godoc
// @Summary Return a loan
// @Description Marks the loan returned and restores the book's availability. Returning twice is a conflict.
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.Envelope{data=dto.LoanResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already returned"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/{id}/return [put]
func (h *loanHandler) returnLoan(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	loan, err := h.loanService.ReturnLoan(c.Request.Context(), c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to return loan")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToLoanResponse(loan)))
}

// deleteLoan godoc
// @Summary Delete a loan record
// @Description Removes the loan. An unreturned loan gives its copy back to the book first.
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.Envelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *loanHandler) deleteLoan(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err, "Failed to delete loan")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(nil))
}
