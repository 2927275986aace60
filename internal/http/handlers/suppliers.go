package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/suppliers
func GetSuppliers(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := supplierService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/suppliers/:id
func GetSupplierByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := supplierService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/suppliers
func CreateSupplier(c *gin.Context) {
	var req models.Supplier
	if !BindJSONOrError(c, &req) {
		return
	}
	req.ID = 0
	out, err := supplierService(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/suppliers/:id
func UpdateSupplier(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.Supplier
	if !BindJSONOrError(c, &req) {
		return
	}
	req.ID = id
	out, err := supplierService(c).Update(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/suppliers/:id
func DeleteSupplier(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := supplierService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplier deleted", "id": id})
}
