package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type reservationRequest struct {
	ClientID   int64                    `json:"client_id"`
	TripID     int64                    `json:"trip_id"`
	Date       Date                     `json:"date"`
	Supplement decimal.Decimal          `json:"room_supplement"`
	Travelers  []services.TravelerInput `json:"travelers"`
	Rooms      []services.RoomInput     `json:"rooms"`
}

// GET /api/reservations
func GetReservations(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := reservationService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, f)
}

// GET /api/reservations/:id
func GetReservationByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := reservationService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/reservations
func CreateReservation(c *gin.Context) {
	var req reservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, err := reservationService(c).Create(c.Request.Context(), services.ReservationInput{
		ClientID:   req.ClientID,
		TripID:     req.TripID,
		Date:       req.Date.Time,
		Supplement: req.Supplement,
		Travelers:  req.Travelers,
		Rooms:      req.Rooms,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// editReservation runs one line-level change and returns the repriced detail.
func editReservation[T any](c *gin.Context, bind bool, edit func(svc services.ReservationService, id int64, body T) (any, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body T
	if bind && !BindJSONOrError(c, &body) {
		return
	}
	out, err := edit(reservationService(c), id, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/reservations/:id/travelers
func AddReservationTraveler(c *gin.Context) {
	editReservation(c, true, func(svc services.ReservationService, id int64, in services.TravelerInput) (any, error) {
		return svc.AddTraveler(c.Request.Context(), id, in)
	})
}

// DELETE /api/reservations/:id/travelers/:itemId
func RemoveReservationTraveler(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	editReservation(c, false, func(svc services.ReservationService, id int64, _ struct{}) (any, error) {
		return svc.RemoveTraveler(c.Request.Context(), id, itemID)
	})
}

// POST /api/reservations/:id/rooms
func AddReservationRoom(c *gin.Context) {
	editReservation(c, true, func(svc services.ReservationService, id int64, in services.RoomInput) (any, error) {
		return svc.AddRoom(c.Request.Context(), id, in)
	})
}

// DELETE /api/reservations/:id/rooms/:itemId
func RemoveReservationRoom(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	editReservation(c, false, func(svc services.ReservationService, id int64, _ struct{}) (any, error) {
		return svc.RemoveRoom(c.Request.Context(), id, itemID)
	})
}

type supplementRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PUT /api/reservations/:id/supplement
func SetReservationSupplement(c *gin.Context) {
	editReservation(c, true, func(svc services.ReservationService, id int64, in supplementRequest) (any, error) {
		return svc.SetSupplement(c.Request.Context(), id, in.Amount)
	})
}

type changeTripRequest struct {
	TripID int64 `json:"trip_id" binding:"required"`
}

// PUT /api/reservations/:id/trip
func ChangeReservationTrip(c *gin.Context) {
	editReservation(c, true, func(svc services.ReservationService, id int64, in changeTripRequest) (any, error) {
		return svc.ChangeTrip(c.Request.Context(), id, in.TripID)
	})
}

// POST /api/reservations/:id/recompute
func RecomputeReservation(c *gin.Context) {
	editReservation(c, false, func(svc services.ReservationService, id int64, _ struct{}) (any, error) {
		return svc.Recompute(c.Request.Context(), id)
	})
}

// POST /api/reservations/:id/confirm
func ConfirmReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := reservationService(c).Confirm(c.Request.Context(), id)
	respondAction(c, res, err)
}

// POST /api/reservations/:id/cancel
func CancelReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := reservationService(c).Cancel(c.Request.Context(), id)
	respondAction(c, res, err)
}

// POST /api/reservations/:id/complete
func CompleteReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := reservationService(c).Complete(c.Request.Context(), id)
	respondAction(c, res, err)
}
