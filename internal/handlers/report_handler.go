package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hallbook/hallbook-api/internal/fiscal"
	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// fiscalYear resolves the ?fy= query parameter (starting calendar
// year), defaulting to the current financial year.
func fiscalYear(c *gin.Context) fiscal.Year {
	if raw := c.Query("fy"); raw != "" {
		if start, err := strconv.Atoi(raw); err == nil && start > 1900 {
			return fiscal.Parse(start)
		}
	}
	return fiscal.Current()
}

// Summary returns the headline financial-year figures.
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.FinancialYearSummary(c.Request.Context(), middleware.GetOrganizationID(c), fiscalYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Breakdown returns per-category income and expense totals.
func (h *ReportHandler) Breakdown(c *gin.Context) {
	breakdown, err := h.reportService.Breakdown(c.Request.Context(), middleware.GetOrganizationID(c), fiscalYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// Payables returns unpaid expense totals grouped by vendor.
func (h *ReportHandler) Payables(c *gin.Context) {
	rows, err := h.reportService.VendorPayables(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payables": rows})
}

// Receivables returns outstanding rent, for one financial year or all
// time (?scope=all).
func (h *ReportHandler) Receivables(c *gin.Context) {
	orgID := middleware.GetOrganizationID(c)
	ctx := c.Request.Context()

	if c.Query("scope") == "all" {
		total, err := h.reportService.ReceivablesAllTime(ctx, orgID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"scope":       "all",
			"receivables": total,
			"formatted":   services.FormatINR(total),
		})
		return
	}

	fy := fiscalYear(c)
	total, err := h.reportService.ReceivablesForYear(ctx, orgID, fy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":        fy,
		"receivables": total,
		"formatted":   services.FormatINR(total),
	})
}

// Export streams the FY report in the requested format.
func (h *ReportHandler) Export(c *gin.Context) {
	orgID := middleware.GetOrganizationID(c)
	fy := fiscalYear(c)
	ctx := c.Request.Context()

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)
	switch c.Param("format") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(ctx, orgID, fy)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(ctx, orgID, fy)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(ctx, orgID, fy)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, xlsx or pdf"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
