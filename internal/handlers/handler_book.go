package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// bookHandler handles HTTP requests for the catalog.
type bookHandler struct {
	bookService portssvc.BookSvcFacade
}

func newBookHandler(bs portssvc.BookSvcFacade) *bookHandler {
	return &bookHandler{bookService: bs}
}

// registerBookRoutes registers routes related to the book catalog.
func registerBookRoutes(rg *gin.RouterGroup, bookService portssvc.BookSvcFacade) {
	h := newBookHandler(bookService)

	books := rg.Group("/books")
	{
		books.POST("", h.createBook)
		books.GET("", h.listBooks)
		books.GET("/search", h.searchBooks)
		books.GET("/:id", h.getBookByID)
		books.PUT("/:id", h.updateBook)
		books.DELETE("/:id", h.deleteBook)
	}
}

// createBook godoc
// @Summary Add a book to the catalog
// @Description Creates a catalog entry with its initial number of copies (admin only).
// @Tags books
// @Accept json
// @Produce json
// @Param book body dto.CreateBookRequest true "Book details"
// @Success 201 {object} dto.Envelope{data=dto.BookResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books [post]
func (h *bookHandler) createBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to create book")
		return
	}

	c.JSON(http.StatusCreated, dto.NewEnvelope(dto.ToBookResponse(book)))
}

// listBooks godoc
// @Summary List books
// @Description Retrieves a paginated list of books, optionally filtered by category.
// @Tags books
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.BookResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books [get]
func (h *bookHandler) listBooks(c *gin.Context) {
	var params dto.ListBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list books")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListBookResponse(books)))
}

// searchBooks godoc
// @Summary Search books
// @Description Finds books whose title or author contains the search term (case-insensitive).
// @Tags books
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.BookResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books/search [get]
func (h *bookHandler) searchBooks(c *gin.Context) {
	var params dto.SearchBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A search term is required"})
		return
	}

	books, err := h.bookService.SearchBooks(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to search books")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToListBookResponse(books)))
}

// getBookByID godoc
// @Summary Get a book
// @Description Retrieves a single catalog entry with its current availability.
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} dto.Envelope{data=dto.BookResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [get]
func (h *bookHandler) getBookByID(c *gin.Context) {
	book, err := h.bookService.GetBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve book")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToBookResponse(book)))
}

// updateBook godoc
// @Summary Update a book
// @Description Updates catalog details of a book (admin only). The copy count is not editable; only loans move it.
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param book body dto.UpdateBookRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.BookResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [put]
func (h *bookHandler) updateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), c.Param("id"), req, actorID, actorRole)
	if err != nil {
		respondError(c, err, "Failed to update book")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(dto.ToBookResponse(book)))
}

// deleteBook godoc
// @Summary Delete a book
// @Description Removes a book from the catalog (admin only). Books with loan history are protected and return a conflict.
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} dto.Envelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Book has loans"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [delete]
func (h *bookHandler) deleteBook(c *gin.Context) {
	actorID, actorRole, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err, "Failed to delete book")
		return
	}

	c.JSON(http.StatusOK, dto.NewEnvelope(nil))
}
