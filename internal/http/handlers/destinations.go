package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/destinations
func GetDestinations(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := destinationService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/destinations/:id
func GetDestinationByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := destinationService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/destinations
func CreateDestination(c *gin.Context) {
	var req models.Destination
	if !BindJSONOrError(c, &req) {
		return
	}
	req.ID = 0
	out, err := destinationService(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/destinations/:id
func UpdateDestination(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.Destination
	if !BindJSONOrError(c, &req) {
		return
	}
	req.ID = id
	out, err := destinationService(c).Update(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/destinations/:id
func DeleteDestination(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := destinationService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "destination deleted", "id": id})
}
