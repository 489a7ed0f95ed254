package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// RegisterReportingRoutes registers the dashboard report routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.dashboard)
		reports.GET("/circulation", h.circulation)
	}
}

// dashboard godoc
// @Summary Dashboard statistics
// @Description Catalog, borrower and loan totals for the landing page
// @Tags reports
// @Produce  json
// @Success 200 {object} domain.DashboardStats
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) dashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stats, err := h.reportingService.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// circulation godoc
// @Summary Circulation report
// @Description Per-month loan activity and fines assessed, plus loans per book category. Defaults to the 12 months ending today.
// @Tags reports
// @Produce  json
// @Param from query string false "First day of the range (YYYY-MM-DD)"
// @Param to query string false "Last day of the range (YYYY-MM-DD)"
// @Success 200 {object} domain.CirculationReport
// @Failure 400 {object} dto.ErrorResponse "Malformed date or invalid range"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reports/circulation [get]
func (h *reportingHandler) circulation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.CirculationReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}
	from, to, err := params.Range()
	if err != nil {
		bindError(c, logger, err)
		return
	}

	report, err := h.reportingService.CirculationReport(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build circulation report")
		return
	}
	c.JSON(http.StatusOK, report)
}
