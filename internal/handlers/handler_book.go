package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bookHandler handles HTTP requests related to the catalog.
type bookHandler struct {
	bookService portssvc.BookSvcFacade
}

func newBookHandler(bs portssvc.BookSvcFacade) *bookHandler {
	return &bookHandler{bookService: bs}
}

// RegisterBookRoutes registers routes related to books.
func RegisterBookRoutes(rg *gin.RouterGroup, bookService portssvc.BookSvcFacade) {
	h := newBookHandler(bookService)

	books := rg.Group("/books")
	{
		books.POST("", h.createBook)
		books.GET("", h.listBooks)
		books.GET("/:bookID", h.getBook)
		books.PUT("/:bookID", h.updateBook)
	}
}

// createBook godoc
// @Summary Add a book to the catalog
// @Description Creates a catalog title with all copies available
// @Tags books
// @Accept  json
// @Produce  json
// @Param   book body dto.CreateBookRequest true "Book details"
// @Success 201 {object} dto.BookResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "ISBN already catalogued"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books [post]
func (h *bookHandler) createBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create book")
		return
	}

	logger.Info("Book created", slog.String("book_id", book.BookID))
	c.JSON(http.StatusCreated, dto.ToBookResponse(book))
}

// getBook godoc
// @Summary Get a book by ID
// @Tags books
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books/{bookID} [get]
func (h *bookHandler) getBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, err := h.bookService.GetBookByID(c.Request.Context(), c.Param("bookID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve book")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// listBooks godoc
// @Summary List books
// @Description Lists catalog titles ordered by title, optionally filtered
// @Tags books
// @Produce  json
// @Param   search query string false "Matches title, author or ISBN"
// @Param   category query string false "Exact category"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListBooksResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books [get]
func (h *bookHandler) listBooks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list books")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBooksResponse(books))
}

// updateBook godoc
// @Summary Update a book
// @Description Edits book metadata; changing totalCopies shifts the available copies by the same amount
// @Tags books
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   book body dto.UpdateBookRequest true "Fields to update"
// @Success 200 {object} dto.BookResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /books/{bookID} [put]
func (h *bookHandler) updateBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), bookID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update book")
		return
	}

	logger.Info("Book updated", slog.String("book_id", bookID))
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}
