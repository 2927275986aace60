package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GetFinanceReport returns revenue, collections and costs per trip, for trips
// starting within start_date..end_date and optionally a given status.
func GetFinanceReport(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := reportsService(c).GetFinanceReport(c.Request.Context(), services.FinanceReportFilter{
		Range:  rng,
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": report})
}

// ExportCashCSV downloads the ledger lines of a date range.
func ExportCashCSV(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	data, name, err := exportService(c).CashCSV(c.Request.Context(), rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, data, name, "text/csv; charset=utf-8", false)
}

// ExportReservationsCSV downloads the reservations matching the list filters.
func ExportReservationsCSV(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	data, name, err := exportService(c).ReservationsCSV(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, data, name, "text/csv; charset=utf-8", false)
}
