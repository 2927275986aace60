package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type tripRequest struct {
	Title         string          `json:"title"`
	DestinationID int64           `json:"destination_id"`
	DepartureCity string          `json:"departure_city"`
	StartDate     Date            `json:"start_date"`
	EndDate       Date            `json:"end_date"`
	AdultPrice    decimal.Decimal `json:"adult_price"`
	ChildPrice    decimal.Decimal `json:"child_price"`
	Capacity      int             `json:"capacity"`
}

func (r tripRequest) input() services.TripInput {
	return services.TripInput{
		Title:         r.Title,
		DestinationID: r.DestinationID,
		DepartureCity: r.DepartureCity,
		StartDate:     r.StartDate.Time,
		EndDate:       r.EndDate.Time,
		AdultPrice:    r.AdultPrice,
		ChildPrice:    r.ChildPrice,
		Capacity:      r.Capacity,
	}
}

type hotelRequest struct {
	models.Hotel
	CheckIn  Date `json:"check_in"`
	CheckOut Date `json:"check_out"`
}

// GET /api/trips
func GetTrips(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := tripService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := tripService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	t, err := tripService(c).Create(c.Request.Context(), req.input())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// PUT /api/trips/:id
func UpdateTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	t, err := tripService(c).Update(c.Request.Context(), id, req.input())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := tripService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted", "id": id})
}

// addOffering binds an offering body and hands it to add.
func addOffering[T any](c *gin.Context, add func(svc services.TripService, tripID int64, v T) (any, error)) {
	tripID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req T
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := add(tripService(c), tripID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /api/trips/:id/meals
func AddTripMeal(c *gin.Context) {
	addOffering(c, func(svc services.TripService, tripID int64, m models.Meal) (any, error) {
		return svc.AddMeal(c.Request.Context(), tripID, m)
	})
}

// POST /api/trips/:id/guides
func AddTripGuide(c *gin.Context) {
	addOffering(c, func(svc services.TripService, tripID int64, g models.Guide) (any, error) {
		return svc.AddGuide(c.Request.Context(), tripID, g)
	})
}

// POST /api/trips/:id/equipment
func AddTripEquipment(c *gin.Context) {
	addOffering(c, func(svc services.TripService, tripID int64, e models.Equipment) (any, error) {
		return svc.AddEquipment(c.Request.Context(), tripID, e)
	})
}

// POST /api/trips/:id/transports
func AddTripTransport(c *gin.Context) {
	addOffering(c, func(svc services.TripService, tripID int64, t models.Transport) (any, error) {
		return svc.AddTransport(c.Request.Context(), tripID, t)
	})
}

// POST /api/trips/:id/hotels
func AddTripHotel(c *gin.Context) {
	addOffering(c, func(svc services.TripService, tripID int64, h hotelRequest) (any, error) {
		hotel := h.Hotel
		hotel.CheckIn, hotel.CheckOut = h.CheckIn.Time, h.CheckOut.Time
		return svc.AddHotel(c.Request.Context(), tripID, hotel)
	})
}

// POST /api/trips/:id/program
func AddTripProgramDay(c *gin.Context) {
	addOffering(c, func(svc services.TripService, tripID int64, p models.ProgramDay) (any, error) {
		return svc.AddProgramDay(c.Request.Context(), tripID, p)
	})
}

var offeringRoutes = map[string]models.OfferingKind{
	"meals":      models.OfferingMeals,
	"guides":     models.OfferingGuides,
	"equipment":  models.OfferingEquipment,
	"transports": models.OfferingTransports,
	"hotels":     models.OfferingHotels,
	"program":    models.OfferingProgram,
}

// DELETE /api/trips/:id/:kind/:itemId
func RemoveTripOffering(c *gin.Context) {
	tripID, ok := paramID(c, "id")
	if !ok {
		return
	}
	kind, known := offeringRoutes[c.Param("kind")]
	if !known {
		respondError(c, http.StatusNotFound, "not_found", "unknown offering "+c.Param("kind"), nil)
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	if err := tripService(c).RemoveOffering(c.Request.Context(), tripID, kind, itemID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": string(kind) + " removed", "id": itemID})
}
