package handlers

import (
	"github.com/gin-gonic/gin"
)

// GetReservationVoucher returns the reservation voucher PDF (inline).
func GetReservationVoucher(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, name, err := docsService(c).ReservationVoucher(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, data, name, "application/pdf", true)
}

// GetPaymentReceipt returns the receipt PDF of a paid payment (inline).
func GetPaymentReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, name, err := docsService(c).PaymentReceipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, data, name, "application/pdf", true)
}

// GetCashReportPDF renders the cash report for start_date..end_date.
func GetCashReportPDF(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	data, name, err := docsService(c).CashReport(c.Request.Context(), rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, data, name, "application/pdf", true)
}
