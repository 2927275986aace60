package services

import (
	"context"
	"database/sql"
	"time"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"
	"backoffice/internal/sequence"

	"github.com/shopspring/decimal"
)

type ClientStore interface {
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, id int64) (models.Client, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Client, error)
	Update(ctx context.Context, c models.Client) error
	Delete(ctx context.Context, id int64) error
}

type DestinationStore interface {
	Create(ctx context.Context, d *models.Destination) error
	Get(ctx context.Context, id int64) (models.Destination, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Destination, error)
	Update(ctx context.Context, d models.Destination) error
	Delete(ctx context.Context, id int64) error
}

type SupplierStore interface {
	Create(ctx context.Context, s *models.Supplier) error
	Get(ctx context.Context, id int64) (models.Supplier, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Supplier, error)
	Update(ctx context.Context, s models.Supplier) error
	Delete(ctx context.Context, id int64) error
}

type TripStore interface {
	Create(ctx context.Context, t *models.Trip) error
	Get(ctx context.Context, id int64) (models.Trip, error)
	GetForUpdate(ctx context.Context, id int64) (models.Trip, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Trip, error)
	Update(ctx context.Context, t models.Trip) error
	UpdateSeats(ctx context.Context, id int64, reserved, available int) error
	Delete(ctx context.Context, id int64) error

	Offerings(ctx context.Context, tripID int64) (models.TripOfferings, error)
	Transports(ctx context.Context, tripID int64) ([]models.Transport, error)
	Hotels(ctx context.Context, tripID int64) ([]models.Hotel, error)
	Program(ctx context.Context, tripID int64) ([]models.ProgramDay, error)
	AddMeal(ctx context.Context, m *models.Meal) error
	AddGuide(ctx context.Context, g *models.Guide) error
	AddEquipment(ctx context.Context, e *models.Equipment) error
	AddTransport(ctx context.Context, t *models.Transport) error
	AddHotel(ctx context.Context, h *models.Hotel) error
	AddProgramDay(ctx context.Context, p *models.ProgramDay) error
	RemoveOffering(ctx context.Context, kind models.OfferingKind, tripID, id int64) error
}

type ReservationStore interface {
	Create(ctx context.Context, r *models.Reservation) error
	Get(ctx context.Context, id int64) (models.Reservation, error)
	GetForUpdate(ctx context.Context, id int64) (models.Reservation, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Reservation, error)
	ListOpenByTrip(ctx context.Context, tripID int64) ([]models.Reservation, error)
	Update(ctx context.Context, r models.Reservation) error
	SetEmailConfirmed(ctx context.Context, id int64, confirmed bool) error
	ConfirmedTravelers(ctx context.Context, tripID, excludeID int64) (int, error)

	Travelers(ctx context.Context, reservationID int64) ([]models.Traveler, error)
	AddTraveler(ctx context.Context, t *models.Traveler) error
	RemoveTraveler(ctx context.Context, reservationID, id int64) error
	Rooms(ctx context.Context, reservationID int64) ([]models.RoomAssignment, error)
	AddRoom(ctx context.Context, a *models.RoomAssignment) error
	RemoveRoom(ctx context.Context, reservationID, id int64) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id int64) (models.Payment, error)
	GetForUpdate(ctx context.Context, id int64) (models.Payment, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Payment, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error
	PaidForReservation(ctx context.Context, reservationID, excludeID int64) (decimal.Decimal, error)
	PaidForPurchase(ctx context.Context, purchaseID, excludeID int64) (decimal.Decimal, error)
}

type CashStore interface {
	Create(ctx context.Context, e *models.CashEntry) error
	Get(ctx context.Context, id int64) (models.CashEntry, error)
	GetForUpdate(ctx context.Context, id int64) (models.CashEntry, error)
	GetByPayment(ctx context.Context, paymentID int64) (models.CashEntry, error)
	Update(ctx context.Context, e models.CashEntry) error
	List(ctx context.Context, rng domain.DateRange) ([]models.CashEntry, error)
	ListFrom(ctx context.Context, day time.Time, id int64) ([]models.CashEntry, error)
	OpeningBalance(ctx context.Context, day time.Time, id int64) (decimal.Decimal, error)
	UpdateBalances(ctx context.Context, id int64, before, after decimal.Decimal) error
	LastBalance(ctx context.Context) (decimal.Decimal, error)
}

type PurchaseStore interface {
	Create(ctx context.Context, p *models.Purchase) error
	Get(ctx context.Context, id int64) (models.Purchase, error)
	GetForUpdate(ctx context.Context, id int64) (models.Purchase, error)
	List(ctx context.Context, f domain.ListFilter) ([]models.Purchase, error)
	Update(ctx context.Context, p models.Purchase) error
	Lines(ctx context.Context, purchaseID int64) ([]models.PurchaseLine, error)
	AddLine(ctx context.Context, l *models.PurchaseLine) error
	RemoveLine(ctx context.Context, purchaseID, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Count(ctx context.Context) (int, error)
}

// Tx groups the stores bound to one transaction.
type Tx struct {
	Clients      ClientStore
	Destinations DestinationStore
	Suppliers    SupplierStore
	Trips        TripStore
	Reservations ReservationStore
	Payments     PaymentStore
	Cash         CashStore
	Purchases    PurchaseStore
	Seq          sequence.Generator
}

// UnitOfWork runs fn atomically; an error from fn discards every write it made.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// SQLUnitOfWork binds the MySQL repositories to a database/sql transaction.
// Seq overrides the in-database sequence table when set (Redis).
type SQLUnitOfWork struct {
	DB  *sql.DB
	Seq sequence.Generator
}

func (u SQLUnitOfWork) Do(ctx context.Context, fn func(tx Tx) error) error {
	return intdb.WithTx(ctx, u.DB, func(sqlTx *sql.Tx) error {
		var seq sequence.Generator = repositories.SequenceRepository{DB: sqlTx}
		if u.Seq != nil {
			seq = u.Seq
		}
		return fn(Tx{
			Clients:      repositories.ClientRepository{DB: sqlTx},
			Destinations: repositories.DestinationRepository{DB: sqlTx},
			Suppliers:    repositories.SupplierRepository{DB: sqlTx},
			Trips:        repositories.TripRepository{DB: sqlTx},
			Reservations: repositories.ReservationRepository{DB: sqlTx},
			Payments:     repositories.PaymentRepository{DB: sqlTx},
			Cash:         repositories.CashRepository{DB: sqlTx},
			Purchases:    repositories.PurchaseRepository{DB: sqlTx},
			Seq:          seq,
		})
	})
}
