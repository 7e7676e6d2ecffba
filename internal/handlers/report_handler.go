package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/services"
)

// ReportHandler handles report generation requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportRequest carries the requested report format.
type ReportRequest struct {
	Format string `form:"format" binding:"required,report_format"`
}

// GenerateReport handles the generation of a downloadable report
// @Summary     Generate a report
// @Description Generate an excel or pdf report of transactions matching the filters, amounts converted into the display currency
// @Tags        reports
// @Accept      json
// @Produce     application/octet-stream
// @Param       format    query string true  "Report format (excel, pdf)"
// @Param       from_date query string false "Filter by start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (YYYY-MM-DD)"
// @Param       status    query string false "Filter by status (earned, spent)"
// @Param       category  query string false "Filter by category name"
// @Param       currency  query string false "Display currency (defaults to configured currency)"
// @Success     200 {file} binary "Report file"
// @Failure     400 {object} ErrorResponse "Invalid input or no matching transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), filter, req.Format, displayCurrency(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
