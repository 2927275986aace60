package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type paymentRequest struct {
	Kind          models.PaymentKind   `json:"kind"`
	Date          Date                 `json:"date"`
	ReservationID int64                `json:"reservation_id"`
	Installment   models.Installment   `json:"installment"`
	PurchaseID    int64                `json:"purchase_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	BankReference string               `json:"bank_reference"`
	Status        models.PaymentStatus `json:"status"`
}

// GET /api/payments
func GetPayments(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := paymentService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/payments/:id
func GetPaymentByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := paymentService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/payments
func CreatePayment(c *gin.Context) {
	var req paymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := paymentService(c).Create(c.Request.Context(), services.PaymentInput{
		Kind:          req.Kind,
		Date:          req.Date.Time,
		ReservationID: req.ReservationID,
		Installment:   req.Installment,
		PurchaseID:    req.PurchaseID,
		Amount:        req.Amount,
		Method:        req.Method,
		BankReference: req.BankReference,
		Status:        req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// POST /api/payments/:id/mark-paid
func MarkPaymentPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := paymentService(c).MarkPaid(c.Request.Context(), id)
	respondAction(c, res, err)
}

// POST /api/payments/:id/cancel
func CancelPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := paymentService(c).Cancel(c.Request.Context(), id)
	respondAction(c, res, err)
}
