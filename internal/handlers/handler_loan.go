package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/middleware"
	"github.com/SscSPs/library_management_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// loanHandler handles HTTP requests against the loan ledger.
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
		loans.POST("", h.issueLoan)
		loans.GET("", h.listLoans)
		loans.GET("/summary", h.loanSummary)
		loans.GET("/overdue", h.overdueLoans)
		loans.GET("/:loanID", h.getLoan)
		loans.POST("/:loanID/return", h.returnLoan)
		loans.POST("/:loanID/renew", h.renewLoan)
	}
}

// issueLoan godoc
// @Summary Issue a loan
// @Description Lends one copy of a book to a borrower. The due date defaults to the standard loan period.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.IssueLoanRequest true "Loan details"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or due date before today"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Book or borrower not found"
// @Failure 409 {object} dto.ErrorResponse "No copies available"
// @Failure 422 {object} dto.ErrorResponse "Borrower not eligible"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) issueLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IssueLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("book_id", req.BookID), slog.String("borrower_id", req.BorrowerID))
	view, err := h.loanService.IssueLoan(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to issue loan")
		return
	}

	logger.Info("Loan issued", slog.String("loan_id", view.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(view))
}

// returnLoan godoc
// @Summary Return a loan
// @Description Closes the loan, frees the copy and assesses any overdue fine
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already returned"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/return [post]
func (h *loanHandler) returnLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))
	view, err := h.loanService.ReturnLoan(c.Request.Context(), loanID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to return loan")
		return
	}

	logger.Info("Loan returned", slog.String("fine", view.FineAmount.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToLoanResponse(view))
}

// renewLoan godoc
// @Summary Renew a loan
// @Description Extends the due date of an open, not overdue loan
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   renewal body dto.RenewLoanRequest false "Optional extension"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Returned, overdue or renewal limit reached"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/renew [post]
func (h *loanHandler) renewLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")
	var req dto.RenewLoanRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, err)
			return
		}
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))
	view, err := h.loanService.RenewLoan(c.Request.Context(), loanID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to renew loan")
		return
	}

	logger.Info("Loan renewed", slog.Int("renewal_count", view.RenewalCount))
	c.JSON(http.StatusOK, dto.ToLoanResponse(view))
}

// getLoan godoc
// @Summary Get a loan by ID
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view, err := h.loanService.GetLoan(c.Request.Context(), c.Param("loanID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(view))
}

// listLoans godoc
// @Summary Query loans
// @Description Filters, searches and sorts loan views derived as of today
// @Tags loans
// @Produce  json
// @Param   status query string false "active, renewed, overdue or returned"
// @Param   search query string false "Matches book title, author or borrower name"
// @Param   borrowerID query string false "Borrower ID"
// @Param   bookID query string false "Book ID"
// @Param   sort query string false "dueDate, issueDate, daysRemaining, fineAmount, borrowerName or bookTitle"
// @Param   order query string false "asc or desc"
// @Param   limit query int false "Page size, 0 for all" default(50)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	views, err := h.loanService.QueryLoans(c.Request.Context(), params.ToLoanQuery())
	if err != nil {
		respondError(c, logger, err, "Failed to query loans")
		return
	}

	page, total := pagination.Page(views, params.Limit, params.Offset)
	c.JSON(http.StatusOK, dto.ListLoansResponse{
		Loans: dto.ToLoanResponses(page),
		Total: total,
	})
}

// loanSummary godoc
// @Summary Loan summary
// @Description Counts loans per status and totals assessed and projected fines
// @Tags loans
// @Produce  json
// @Success 200 {object} domain.LoanSummary
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/summary [get]
func (h *loanHandler) loanSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	summary, err := h.loanService.LoanSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to summarize loans")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// overdueLoans godoc
// @Summary Overdue loans
// @Description Lists unreturned loans past their due date, earliest due first
// @Tags loans
// @Produce  json
// @Success 200 {object} dto.OverdueSnapshotResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /loans/overdue [get]
func (h *loanHandler) overdueLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshot, err := h.loanService.OverdueSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list overdue loans")
		return
	}
	c.JSON(http.StatusOK, dto.ToOverdueSnapshotResponse(snapshot))
}
