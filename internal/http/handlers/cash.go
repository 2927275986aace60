package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cashEntryRequest struct {
	Date        Date                 `json:"date"`
	Direction   models.CashDirection `json:"direction"`
	PaymentID   int64                `json:"payment_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      models.PaymentMethod `json:"method"`
	Description string               `json:"description"`
	Status      models.CashStatus    `json:"status"`
}

type cashEntryUpdateRequest struct {
	Date        *Date                 `json:"date"`
	Direction   *models.CashDirection `json:"direction"`
	Amount      *decimal.Decimal      `json:"amount"`
	Method      *models.PaymentMethod `json:"method"`
	Description *string               `json:"description"`
}

// GET /api/cash?start_date=&end_date=
func GetCashEntries(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	items, err := cashService(c).ListEntries(c.Request.Context(), rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if items == nil {
		items = []models.CashEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /api/cash/:id
func GetCashEntryByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := cashService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /api/cash
func CreateCashEntry(c *gin.Context) {
	var req cashEntryRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	e, err := cashService(c).CreateEntry(c.Request.Context(), services.CashEntryInput{
		Date:        req.Date.Time,
		Direction:   req.Direction,
		PaymentID:   req.PaymentID,
		Amount:      req.Amount,
		Method:      req.Method,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/cash/:id
func UpdateCashEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req cashEntryUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	e, err := cashService(c).UpdateEntry(c.Request.Context(), id, services.CashEntryUpdate{
		Date:        timeOf(req.Date),
		Direction:   req.Direction,
		Amount:      req.Amount,
		Method:      req.Method,
		Description: req.Description,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /api/cash/:id/validate
func ValidateCashEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := cashService(c).ValidateEntry(c.Request.Context(), id)
	respondAction(c, res, err)
}

// POST /api/cash/:id/cancel
func CancelCashEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := cashService(c).CancelEntry(c.Request.Context(), id)
	respondAction(c, res, err)
}

// GET /api/cash/balance
func GetCashBalance(c *gin.Context) {
	bal, err := cashService(c).CurrentBalance(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": bal})
}

// POST /api/cash/recompute
func RecomputeCash(c *gin.Context) {
	n, err := cashService(c).Recompute(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ledger recomputed", "updated": n})
}

// GET /api/cash/report?start_date=&end_date=
func GetCashReport(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	rep, err := cashService(c).Report(c.Request.Context(), rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
