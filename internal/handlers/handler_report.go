package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// reportHandler handles HTTP requests for the admin reporting pages.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(reportService portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: reportService}
}

// registerReportRoutes registers the admin-only reporting routes.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports", middleware.RequireAdmin())
	{
		reports.GET("/summary", h.summary)
		reports.GET("/loans", h.loanReport)
		reports.GET("/popular-books", h.popularBooks)
		reports.GET("/active-members", h.activeMembers)
	}
}

// summary godoc
// @Summary Circulation summary
// @Description Returns library-wide counters, a per-status loan breakdown and last week's activity
// @Tags reports
// @Produce json
// @Success 200 {object} dto.ReportSummaryResponse
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportHandler) summary(c *gin.Context) {
	summary, err := h.reportService.GetSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// loanReport godoc
// @Summary Verified-returns report
// @Description Pages RETURNED loans with a verifier, filtered by return date, with window totals
// @Tags reports
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end, inclusive (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.LoanReportResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /reports/loans [get]
func (h *reportHandler) loanReport(c *gin.Context) {
	var params dto.LoanReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	report, err := h.reportService.GetLoanReport(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// popularBooks godoc
// @Summary Most-borrowed books
// @Tags reports
// @Produce json
// @Param limit query int false "Ranking size" default(10)
// @Success 200 {array} dto.PopularBookItem
// @Security BearerAuth
// @Router /reports/popular-books [get]
func (h *reportHandler) popularBooks(c *gin.Context) {
	var params dto.TopListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	books, err := h.reportService.GetPopularBooks(c.Request.Context(), params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// activeMembers godoc
// @Summary Most-active borrowers
// @Tags reports
// @Produce json
// @Param limit query int false "Ranking size" default(10)
// @Success 200 {array} dto.ActiveMemberItem
// @Security BearerAuth
// @Router /reports/active-members [get]
func (h *reportHandler) activeMembers(c *gin.Context) {
	var params dto.TopListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	members, err := h.reportService.GetActiveMembers(c.Request.Context(), params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
