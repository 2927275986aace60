package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type purchaseRequest struct {
	TripID     int64                        `json:"trip_id"`
	SupplierID int64                        `json:"supplier_id"`
	Date       Date                         `json:"date"`
	VATRate    *decimal.Decimal             `json:"vat_rate"`
	Lines      []services.PurchaseLineInput `json:"lines"`
}

type purchaseUpdateRequest struct {
	SupplierID *int64           `json:"supplier_id"`
	Date       *Date            `json:"date"`
	VATRate    *decimal.Decimal `json:"vat_rate"`
	Active     *bool            `json:"active"`
}

// GET /api/purchases
func GetPurchases(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := purchaseService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/purchases/:id
func GetPurchaseByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := purchaseService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/purchases
func CreatePurchase(c *gin.Context) {
	var req purchaseRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := purchaseService(c).Create(c.Request.Context(), services.PurchaseInput{
		TripID:     req.TripID,
		SupplierID: req.SupplierID,
		Date:       req.Date.Time,
		VATRate:    req.VATRate,
		Lines:      req.Lines,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /api/purchases/:id
func UpdatePurchase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req purchaseUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := purchaseService(c).Update(c.Request.Context(), id, services.PurchaseUpdate{
		SupplierID: req.SupplierID,
		Date:       timeOf(req.Date),
		VATRate:    req.VATRate,
		Active:     req.Active,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/purchases/:id/lines
func AddPurchaseLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.PurchaseLineInput
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := purchaseService(c).AddLine(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/purchases/:id/lines/:itemId
func RemovePurchaseLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lineID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	p, err := purchaseService(c).RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/purchases/:id/validate-quote
func ValidatePurchaseQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := purchaseService(c).ValidateQuote(c.Request.Context(), id)
	respondAction(c, res, err)
}

// POST /api/purchases/:id/mark-paid
func MarkPurchasePaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := purchaseService(c).MarkPaid(c.Request.Context(), id)
	respondAction(c, res, err)
}

// POST /api/purchases/:id/cancel
func CancelPurchase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := purchaseService(c).Cancel(c.Request.Context(), id)
	respondAction(c, res, err)
}
