package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// borrowerHandler handles HTTP requests related to library members.
type borrowerHandler struct {
	borrowerService portssvc.BorrowerSvcFacade
}

func newBorrowerHandler(bs portssvc.BorrowerSvcFacade) *borrowerHandler {
	return &borrowerHandler{borrowerService: bs}
}

// RegisterBorrowerRoutes registers routes related to borrowers.
func RegisterBorrowerRoutes(rg *gin.RouterGroup, borrowerService portssvc.BorrowerSvcFacade) {
	h := newBorrowerHandler(borrowerService)

	borrowers := rg.Group("/borrowers")
	{
		borrowers.POST("", h.createBorrower)
		borrowers.GET("", h.listBorrowers)
		borrowers.GET("/:borrowerID", h.getBorrower)
		borrowers.PUT("/:borrowerID", h.updateBorrower)
		borrowers.POST("/:borrowerID/fines/payments", h.payFine)
	}
}

// createBorrower godoc
// @Summary Register a borrower
// @Tags borrowers
// @Accept  json
// @Produce  json
// @Param   borrower body dto.CreateBorrowerRequest true "Borrower details"
// @Success 201 {object} dto.BorrowerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /borrowers [post]
func (h *borrowerHandler) createBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	borrower, err := h.borrowerService.CreateBorrower(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create borrower")
		return
	}

	logger.Info("Borrower registered", slog.String("borrower_id", borrower.BorrowerID))
	c.JSON(http.StatusCreated, dto.ToBorrowerResponse(borrower))
}

// getBorrower godoc
// @Summary Get a borrower by ID
// @Tags borrowers
// @Produce  json
// @Param   borrowerID path string true "Borrower ID"
// @Success 200 {object} dto.BorrowerResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /borrowers/{borrowerID} [get]
func (h *borrowerHandler) getBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	borrower, err := h.borrowerService.GetBorrowerByID(c.Request.Context(), c.Param("borrowerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve borrower")
		return
	}
	c.JSON(http.StatusOK, dto.ToBorrowerResponse(borrower))
}

// listBorrowers godoc
// @Summary List borrowers
// @Tags borrowers
// @Produce  json
// @Param   search query string false "Matches name, email or phone"
// @Param   membershipType query string false "student, faculty or public"
// @Param   status query string false "active, suspended or expired"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListBorrowersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /borrowers [get]
func (h *borrowerHandler) listBorrowers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBorrowersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	borrowers, err := h.borrowerService.ListBorrowers(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list borrowers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBorrowersResponse(borrowers))
}

// updateBorrower godoc
// @Summary Update a borrower
// @Description Edits contact details, membership or account status
// @Tags borrowers
// @Accept  json
// @Produce  json
// @Param   borrowerID path string true "Borrower ID"
// @Param   borrower body dto.UpdateBorrowerRequest true "Fields to update"
// @Success 200 {object} dto.BorrowerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /borrowers/{borrowerID} [put]
func (h *borrowerHandler) updateBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	borrowerID := c.Param("borrowerID")
	var req dto.UpdateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	borrower, err := h.borrowerService.UpdateBorrower(c.Request.Context(), borrowerID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update borrower")
		return
	}

	logger.Info("Borrower updated", slog.String("borrower_id", borrowerID))
	c.JSON(http.StatusOK, dto.ToBorrowerResponse(borrower))
}

// payFine godoc
// @Summary Record a fine payment
// @Description Reduces the borrower's outstanding fines
// @Tags borrowers
// @Accept  json
// @Produce  json
// @Param   borrowerID path string true "Borrower ID"
// @Param   payment body dto.PayFineRequest true "Payment"
// @Success 200 {object} dto.BorrowerResponse
// @Failure 400 {object} dto.ErrorResponse "Amount not positive or above the outstanding fines"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /borrowers/{borrowerID}/fines/payments [post]
func (h *borrowerHandler) payFine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	borrowerID := c.Param("borrowerID")
	var req dto.PayFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	borrower, err := h.borrowerService.PayFine(c.Request.Context(), borrowerID, req.Amount, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record fine payment")
		return
	}

	logger.Info("Fine payment recorded", slog.String("borrower_id", borrowerID), slog.String("amount", req.Amount.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToBorrowerResponse(borrower))
}
