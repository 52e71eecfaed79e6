package handlers

import (
	"net/http"

	"carrental/internal/http/middleware"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func reportFilter(c *gin.Context) services.ReportFilter {
	return services.ReportFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}

// GET /api/reports/financial-summary?start_date&end_date
func GetFinancialSummary(c *gin.Context) {
	sum, err := services.ReportsService{}.FinancialSummary(c.Request.Context(), reportFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /api/reports/financial-summary.pdf
func GetFinancialSummaryPDF(c *gin.Context) {
	sum, err := services.ReportsService{}.FinancialSummary(c.Request.Context(), reportFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	data, filename, err := services.DocsService{RequestID: middleware.GetRequestID(c)}.FinancialSummaryPDF(sum)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "pdf_error", "gagal membuat PDF", err)
		return
	}
	sendPDF(c, data, filename)
}

// GET /api/reports/vehicle-utilization?start_date&end_date
func GetVehicleUtilization(c *gin.Context) {
	rows, err := services.ReportsService{}.VehicleUtilization(c.Request.Context(), reportFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
