package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/clients
func GetClients(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := clientService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/clients/:id
func GetClientByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := clientService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/clients
func CreateClient(c *gin.Context) {
	var req models.Client
	if !BindJSONOrError(c, &req) {
		return
	}
	req.ID = 0
	out, err := clientService(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/clients/:id
func UpdateClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.Client
	if !BindJSONOrError(c, &req) {
		return
	}
	req.ID = id
	out, err := clientService(c).Update(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/clients/:id
func DeleteClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := clientService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted", "id": id})
}
