package services

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/calc"
	"backoffice/internal/domain/models"
	"backoffice/internal/notify"
	"backoffice/internal/sequence"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memDB is an in-memory copy of the schema. memStore hands each unit of work
// a clone and keeps it only when fn succeeds, which mirrors a rollback.
type memDB struct {
	nextID int64
	seq    map[sequence.Code]int64

	clients      map[int64]models.Client
	destinations map[int64]models.Destination
	suppliers    map[int64]models.Supplier
	trips        map[int64]models.Trip
	meals        map[int64]models.Meal
	guides       map[int64]models.Guide
	equipment    map[int64]models.Equipment
	transports   map[int64]models.Transport
	hotels       map[int64]models.Hotel
	program      map[int64]models.ProgramDay
	reservations map[int64]models.Reservation
	travelers    map[int64]models.Traveler
	rooms        map[int64]models.RoomAssignment
	payments     map[int64]models.Payment
	cash         map[int64]models.CashEntry
	purchases    map[int64]models.Purchase
	lines        map[int64]models.PurchaseLine
}

func newMemDB() *memDB {
	return &memDB{
		seq:          map[sequence.Code]int64{},
		clients:      map[int64]models.Client{},
		destinations: map[int64]models.Destination{},
		suppliers:    map[int64]models.Supplier{},
		trips:        map[int64]models.Trip{},
		meals:        map[int64]models.Meal{},
		guides:       map[int64]models.Guide{},
		equipment:    map[int64]models.Equipment{},
		transports:   map[int64]models.Transport{},
		hotels:       map[int64]models.Hotel{},
		program:      map[int64]models.ProgramDay{},
		reservations: map[int64]models.Reservation{},
		travelers:    map[int64]models.Traveler{},
		rooms:        map[int64]models.RoomAssignment{},
		payments:     map[int64]models.Payment{},
		cash:         map[int64]models.CashEntry{},
		purchases:    map[int64]models.Purchase{},
		lines:        map[int64]models.PurchaseLine{},
	}
}

func (db *memDB) clone() *memDB {
	return &memDB{
		nextID:       db.nextID,
		seq:          maps.Clone(db.seq),
		clients:      maps.Clone(db.clients),
		destinations: maps.Clone(db.destinations),
		suppliers:    maps.Clone(db.suppliers),
		trips:        maps.Clone(db.trips),
		meals:        maps.Clone(db.meals),
		guides:       maps.Clone(db.guides),
		equipment:    maps.Clone(db.equipment),
		transports:   maps.Clone(db.transports),
		hotels:       maps.Clone(db.hotels),
		program:      maps.Clone(db.program),
		reservations: maps.Clone(db.reservations),
		travelers:    maps.Clone(db.travelers),
		rooms:        maps.Clone(db.rooms),
		payments:     maps.Clone(db.payments),
		cash:         maps.Clone(db.cash),
		purchases:    maps.Clone(db.purchases),
		lines:        maps.Clone(db.lines),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) tx() Tx {
	return Tx{
		Clients:      memClients{db},
		Destinations: memDestinations{db},
		Suppliers:    memSuppliers{db},
		Trips:        memTrips{db},
		Reservations: memReservations{db},
		Payments:     memPayments{db},
		Cash:         memCash{db},
		Purchases:    memPurchases{db},
		Seq:          memSeq{db},
	}
}

type memStore struct {
	mu sync.Mutex
	db *memDB
}

func newMemStore() *memStore {
	return &memStore{db: newMemDB()}
}

func (s *memStore) Do(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.db.clone()
	if err := fn(work.tx()); err != nil {
		return err
	}
	s.db = work
	return nil
}

// snapshot returns the committed state for assertions.
func (s *memStore) snapshot() *memDB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

func sortedValues[V any](m map[int64]V, keep func(V) bool) []V {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func get[V any](m map[int64]V, id int64, resource string) (V, error) {
	v, ok := m[id]
	if !ok {
		var zero V
		return zero, domain.NotFoundError{Resource: resource, ID: id}
	}
	return v, nil
}

func update[V any](m map[int64]V, id int64, v V, resource string) error {
	if _, ok := m[id]; !ok {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	m[id] = v
	return nil
}

func remove[V any](m map[int64]V, id int64, resource string) error {
	if _, ok := m[id]; !ok {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	delete(m, id)
	return nil
}

type memSeq struct{ db *memDB }

func (s memSeq) Next(_ context.Context, code sequence.Code) (int64, error) {
	s.db.seq[code]++
	return s.db.seq[code], nil
}

type memClients struct{ db *memDB }

func (s memClients) Create(_ context.Context, c *models.Client) error {
	c.ID = s.db.id()
	s.db.clients[c.ID] = *c
	return nil
}

func (s memClients) Get(_ context.Context, id int64) (models.Client, error) {
	return get(s.db.clients, id, "client")
}

func (s memClients) List(_ context.Context, f domain.ListFilter) ([]models.Client, error) {
	return sortedValues(s.db.clients, func(c models.Client) bool {
		return f.Search == "" || strings.Contains(strings.ToLower(c.FullName), strings.ToLower(f.Search))
	}), nil
}

func (s memClients) Update(_ context.Context, c models.Client) error {
	return update(s.db.clients, c.ID, c, "client")
}

func (s memClients) Delete(_ context.Context, id int64) error {
	for _, r := range s.db.reservations {
		if r.ClientID == id {
			return domain.ConflictError{Resource: "client", Msg: "still referenced"}
		}
	}
	return remove(s.db.clients, id, "client")
}

type memDestinations struct{ db *memDB }

func (s memDestinations) Create(_ context.Context, d *models.Destination) error {
	d.ID = s.db.id()
	s.db.destinations[d.ID] = *d
	return nil
}

func (s memDestinations) Get(_ context.Context, id int64) (models.Destination, error) {
	return get(s.db.destinations, id, "destination")
}

func (s memDestinations) List(context.Context, domain.ListFilter) ([]models.Destination, error) {
	return sortedValues(s.db.destinations, nil), nil
}

func (s memDestinations) Update(_ context.Context, d models.Destination) error {
	return update(s.db.destinations, d.ID, d, "destination")
}

func (s memDestinations) Delete(_ context.Context, id int64) error {
	return remove(s.db.destinations, id, "destination")
}

type memSuppliers struct{ db *memDB }

func (s memSuppliers) Create(_ context.Context, sp *models.Supplier) error {
	sp.ID = s.db.id()
	s.db.suppliers[sp.ID] = *sp
	return nil
}

func (s memSuppliers) Get(_ context.Context, id int64) (models.Supplier, error) {
	return get(s.db.suppliers, id, "supplier")
}

func (s memSuppliers) List(context.Context, domain.ListFilter) ([]models.Supplier, error) {
	return sortedValues(s.db.suppliers, nil), nil
}

func (s memSuppliers) Update(_ context.Context, sp models.Supplier) error {
	return update(s.db.suppliers, sp.ID, sp, "supplier")
}

func (s memSuppliers) Delete(_ context.Context, id int64) error {
	return remove(s.db.suppliers, id, "supplier")
}

type memTrips struct{ db *memDB }

func (s memTrips) Create(_ context.Context, t *models.Trip) error {
	t.ID = s.db.id()
	s.db.trips[t.ID] = *t
	return nil
}

func (s memTrips) Get(_ context.Context, id int64) (models.Trip, error) {
	return get(s.db.trips, id, "trip")
}

func (s memTrips) GetForUpdate(ctx context.Context, id int64) (models.Trip, error) {
	return s.Get(ctx, id)
}

func (s memTrips) List(context.Context, domain.ListFilter) ([]models.Trip, error) {
	return sortedValues(s.db.trips, nil), nil
}

func (s memTrips) Update(_ context.Context, t models.Trip) error {
	return update(s.db.trips, t.ID, t, "trip")
}

func (s memTrips) UpdateSeats(_ context.Context, id int64, reserved, available int) error {
	t, err := get(s.db.trips, id, "trip")
	if err != nil {
		return err
	}
	t.Reserved, t.Available = reserved, available
	s.db.trips[id] = t
	return nil
}

func (s memTrips) Delete(_ context.Context, id int64) error {
	return remove(s.db.trips, id, "trip")
}

func (s memTrips) Offerings(_ context.Context, tripID int64) (models.TripOfferings, error) {
	return models.TripOfferings{
		Meals:     sortedValues(s.db.meals, func(m models.Meal) bool { return m.TripID == tripID }),
		Guides:    sortedValues(s.db.guides, func(g models.Guide) bool { return g.TripID == tripID }),
		Equipment: sortedValues(s.db.equipment, func(e models.Equipment) bool { return e.TripID == tripID }),
	}, nil
}

func (s memTrips) Transports(_ context.Context, tripID int64) ([]models.Transport, error) {
	return sortedValues(s.db.transports, func(t models.Transport) bool { return t.TripID == tripID }), nil
}

func (s memTrips) Hotels(_ context.Context, tripID int64) ([]models.Hotel, error) {
	return sortedValues(s.db.hotels, func(h models.Hotel) bool { return h.TripID == tripID }), nil
}

func (s memTrips) Program(_ context.Context, tripID int64) ([]models.ProgramDay, error) {
	return sortedValues(s.db.program, func(p models.ProgramDay) bool { return p.TripID == tripID }), nil
}

func (s memTrips) AddMeal(_ context.Context, m *models.Meal) error {
	m.ID = s.db.id()
	s.db.meals[m.ID] = *m
	return nil
}

func (s memTrips) AddGuide(_ context.Context, g *models.Guide) error {
	g.ID = s.db.id()
	s.db.guides[g.ID] = *g
	return nil
}

func (s memTrips) AddEquipment(_ context.Context, e *models.Equipment) error {
	e.ID = s.db.id()
	s.db.equipment[e.ID] = *e
	return nil
}

func (s memTrips) AddTransport(_ context.Context, t *models.Transport) error {
	t.ID = s.db.id()
	s.db.transports[t.ID] = *t
	return nil
}

func (s memTrips) AddHotel(_ context.Context, h *models.Hotel) error {
	h.ID = s.db.id()
	s.db.hotels[h.ID] = *h
	return nil
}

func (s memTrips) AddProgramDay(_ context.Context, p *models.ProgramDay) error {
	p.ID = s.db.id()
	s.db.program[p.ID] = *p
	return nil
}

func removeOwned[V any](m map[int64]V, id, tripID int64, owner func(V) int64, resource string) error {
	v, ok := m[id]
	if !ok || owner(v) != tripID {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	delete(m, id)
	return nil
}

func (s memTrips) RemoveOffering(_ context.Context, kind models.OfferingKind, tripID, id int64) error {
	switch kind {
	case models.OfferingMeals:
		return removeOwned(s.db.meals, id, tripID, func(v models.Meal) int64 { return v.TripID }, "meal")
	case models.OfferingGuides:
		return removeOwned(s.db.guides, id, tripID, func(v models.Guide) int64 { return v.TripID }, "guide")
	case models.OfferingEquipment:
		return removeOwned(s.db.equipment, id, tripID, func(v models.Equipment) int64 { return v.TripID }, "equipment")
	case models.OfferingTransports:
		return removeOwned(s.db.transports, id, tripID, func(v models.Transport) int64 { return v.TripID }, "transport")
	case models.OfferingHotels:
		return removeOwned(s.db.hotels, id, tripID, func(v models.Hotel) int64 { return v.TripID }, "hotel")
	case models.OfferingProgram:
		return removeOwned(s.db.program, id, tripID, func(v models.ProgramDay) int64 { return v.TripID }, "program day")
	}
	return domain.ValidationError{Field: "kind", Msg: "unknown offering " + string(kind)}
}

type memReservations struct{ db *memDB }

func (s memReservations) Create(_ context.Context, r *models.Reservation) error {
	r.ID = s.db.id()
	s.db.reservations[r.ID] = *r
	return nil
}

func (s memReservations) Get(_ context.Context, id int64) (models.Reservation, error) {
	return get(s.db.reservations, id, "reservation")
}

func (s memReservations) GetForUpdate(ctx context.Context, id int64) (models.Reservation, error) {
	return s.Get(ctx, id)
}

func (s memReservations) List(_ context.Context, f domain.ListFilter) ([]models.Reservation, error) {
	return sortedValues(s.db.reservations, func(r models.Reservation) bool {
		return (f.TripID == 0 || r.TripID == f.TripID) &&
			(f.ClientID == 0 || r.ClientID == f.ClientID) &&
			(f.Status == "" || string(r.Status) == f.Status)
	}), nil
}

func (s memReservations) ListOpenByTrip(_ context.Context, tripID int64) ([]models.Reservation, error) {
	return sortedValues(s.db.reservations, func(r models.Reservation) bool {
		return r.TripID == tripID && r.Status.Open()
	}), nil
}

func (s memReservations) Update(_ context.Context, r models.Reservation) error {
	return update(s.db.reservations, r.ID, r, "reservation")
}

func (s memReservations) SetEmailConfirmed(_ context.Context, id int64, confirmed bool) error {
	r, err := get(s.db.reservations, id, "reservation")
	if err != nil {
		return err
	}
	r.EmailConfirmed = confirmed
	s.db.reservations[id] = r
	return nil
}

func (s memReservations) ConfirmedTravelers(_ context.Context, tripID, excludeID int64) (int, error) {
	n := 0
	for _, r := range s.db.reservations {
		if r.TripID == tripID && r.Status == models.ReservationConfirmed && r.ID != excludeID {
			n += r.TotalTravelers
		}
	}
	return n, nil
}

func (s memReservations) Travelers(_ context.Context, reservationID int64) ([]models.Traveler, error) {
	return sortedValues(s.db.travelers, func(t models.Traveler) bool { return t.ReservationID == reservationID }), nil
}

func (s memReservations) AddTraveler(_ context.Context, t *models.Traveler) error {
	t.ID = s.db.id()
	s.db.travelers[t.ID] = *t
	return nil
}

func (s memReservations) RemoveTraveler(_ context.Context, reservationID, id int64) error {
	t, ok := s.db.travelers[id]
	if !ok || t.ReservationID != reservationID {
		return domain.NotFoundError{Resource: "traveler", ID: id}
	}
	delete(s.db.travelers, id)
	return nil
}

func (s memReservations) Rooms(_ context.Context, reservationID int64) ([]models.RoomAssignment, error) {
	return sortedValues(s.db.rooms, func(a models.RoomAssignment) bool { return a.ReservationID == reservationID }), nil
}

func (s memReservations) AddRoom(_ context.Context, a *models.RoomAssignment) error {
	a.ID = s.db.id()
	s.db.rooms[a.ID] = *a
	return nil
}

func (s memReservations) RemoveRoom(_ context.Context, reservationID, id int64) error {
	a, ok := s.db.rooms[id]
	if !ok || a.ReservationID != reservationID {
		return domain.NotFoundError{Resource: "room", ID: id}
	}
	delete(s.db.rooms, id)
	return nil
}

type memPayments struct{ db *memDB }

func (s memPayments) Create(_ context.Context, p *models.Payment) error {
	p.ID = s.db.id()
	s.db.payments[p.ID] = *p
	return nil
}

func (s memPayments) Get(_ context.Context, id int64) (models.Payment, error) {
	return get(s.db.payments, id, "payment")
}

func (s memPayments) GetForUpdate(ctx context.Context, id int64) (models.Payment, error) {
	return s.Get(ctx, id)
}

func (s memPayments) List(_ context.Context, f domain.ListFilter) ([]models.Payment, error) {
	return sortedValues(s.db.payments, func(p models.Payment) bool {
		return (f.Kind == "" || string(p.Kind) == f.Kind) && (f.Status == "" || string(p.Status) == f.Status)
	}), nil
}

func (s memPayments) ListByReservation(_ context.Context, reservationID int64) ([]models.Payment, error) {
	return sortedValues(s.db.payments, func(p models.Payment) bool { return p.ReservationID == reservationID }), nil
}

func (s memPayments) UpdateStatus(_ context.Context, id int64, status models.PaymentStatus) error {
	p, err := get(s.db.payments, id, "payment")
	if err != nil {
		return err
	}
	p.Status = status
	s.db.payments[id] = p
	return nil
}

func (s memPayments) paid(match func(models.Payment) bool, excludeID int64) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range s.db.payments {
		if p.Status == models.PaymentPaid && p.ID != excludeID && match(p) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

func (s memPayments) PaidForReservation(_ context.Context, reservationID, excludeID int64) (decimal.Decimal, error) {
	return s.paid(func(p models.Payment) bool { return p.ReservationID == reservationID }, excludeID), nil
}

func (s memPayments) PaidForPurchase(_ context.Context, purchaseID, excludeID int64) (decimal.Decimal, error) {
	return s.paid(func(p models.Payment) bool { return p.PurchaseID == purchaseID }, excludeID), nil
}

type memCash struct{ db *memDB }

func (s memCash) Create(_ context.Context, e *models.CashEntry) error {
	if e.PaymentID != 0 {
		for _, other := range s.db.cash {
			if other.PaymentID == e.PaymentID {
				return domain.ConflictError{Resource: "cash entry", Msg: "payment already has a cash entry"}
			}
		}
	}
	e.ID = s.db.id()
	s.db.cash[e.ID] = *e
	return nil
}

func (s memCash) Get(_ context.Context, id int64) (models.CashEntry, error) {
	return get(s.db.cash, id, "cash entry")
}

func (s memCash) GetForUpdate(ctx context.Context, id int64) (models.CashEntry, error) {
	return s.Get(ctx, id)
}

func (s memCash) GetByPayment(_ context.Context, paymentID int64) (models.CashEntry, error) {
	for _, e := range s.db.cash {
		if e.PaymentID == paymentID {
			return e, nil
		}
	}
	return models.CashEntry{}, domain.NotFoundError{Resource: "cash entry for payment", ID: paymentID}
}

func (s memCash) Update(_ context.Context, e models.CashEntry) error {
	stored, err := get(s.db.cash, e.ID, "cash entry")
	if err != nil {
		return err
	}
	e.BalanceBefore, e.BalanceAfter = stored.BalanceBefore, stored.BalanceAfter
	s.db.cash[e.ID] = e
	return nil
}

func (s memCash) ordered(keep func(models.CashEntry) bool) []models.CashEntry {
	out := sortedValues(s.db.cash, keep)
	calc.SortLedger(out)
	return out
}

func (s memCash) List(_ context.Context, rng domain.DateRange) ([]models.CashEntry, error) {
	return s.ordered(func(e models.CashEntry) bool { return rng.Contains(e.Date) }), nil
}

func atOrAfter(e models.CashEntry, day time.Time, id int64) bool {
	return !calc.Precedes(e, models.CashEntry{Date: day, ID: id})
}

func (s memCash) ListFrom(_ context.Context, day time.Time, id int64) ([]models.CashEntry, error) {
	return s.ordered(func(e models.CashEntry) bool { return atOrAfter(e, day, id) }), nil
}

func (s memCash) OpeningBalance(_ context.Context, day time.Time, id int64) (decimal.Decimal, error) {
	return calc.OpeningBalance(s.ordered(func(e models.CashEntry) bool { return !atOrAfter(e, day, id) })), nil
}

func (s memCash) UpdateBalances(_ context.Context, id int64, before, after decimal.Decimal) error {
	e, err := get(s.db.cash, id, "cash entry")
	if err != nil {
		return err
	}
	e.BalanceBefore, e.BalanceAfter = before, after
	s.db.cash[id] = e
	return nil
}

func (s memCash) LastBalance(context.Context) (decimal.Decimal, error) {
	all := s.ordered(nil)
	if len(all) == 0 {
		return decimal.Zero, nil
	}
	return all[len(all)-1].BalanceAfter, nil
}

type memPurchases struct{ db *memDB }

func (s memPurchases) Create(_ context.Context, p *models.Purchase) error {
	p.ID = s.db.id()
	stored := *p
	stored.Lines = nil
	s.db.purchases[p.ID] = stored
	return nil
}

func (s memPurchases) Get(_ context.Context, id int64) (models.Purchase, error) {
	return get(s.db.purchases, id, "purchase")
}

func (s memPurchases) GetForUpdate(ctx context.Context, id int64) (models.Purchase, error) {
	return s.Get(ctx, id)
}

func (s memPurchases) List(_ context.Context, f domain.ListFilter) ([]models.Purchase, error) {
	return sortedValues(s.db.purchases, func(p models.Purchase) bool {
		return (f.TripID == 0 || p.TripID == f.TripID) && (f.Status == "" || string(p.Status) == f.Status)
	}), nil
}

func (s memPurchases) Update(_ context.Context, p models.Purchase) error {
	p.Lines = nil
	return update(s.db.purchases, p.ID, p, "purchase")
}

func (s memPurchases) Lines(_ context.Context, purchaseID int64) ([]models.PurchaseLine, error) {
	return sortedValues(s.db.lines, func(l models.PurchaseLine) bool { return l.PurchaseID == purchaseID }), nil
}

func (s memPurchases) AddLine(_ context.Context, l *models.PurchaseLine) error {
	l.ID = s.db.id()
	s.db.lines[l.ID] = *l
	return nil
}

func (s memPurchases) RemoveLine(_ context.Context, purchaseID, id int64) error {
	l, ok := s.db.lines[id]
	if !ok || l.PurchaseID != purchaseID {
		return domain.NotFoundError{Resource: "purchase line", ID: id}
	}
	delete(s.db.lines, id)
	return nil
}

// memUsers is not transactional; AuthService talks to it directly.
type memUsers struct {
	mu    sync.Mutex
	users map[int64]models.User
}

func (s *memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = map[int64]models.User{}
	}
	for _, other := range s.users {
		if other.Email == strings.ToLower(u.Email) {
			return domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
	}
	u.ID = int64(len(s.users) + 1)
	s.users[u.ID] = *u
	return nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (s *memUsers) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

// recordingMailer keeps sent messages; Err makes every send fail.
type recordingMailer struct {
	mu   sync.Mutex
	Sent []notify.Message
	Err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// fixtures

var (
	today    = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	fixedNow = func() time.Time { return today }
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedClient(t *testing.T, store *memStore, email string) models.Client {
	t.Helper()
	c, err := ClientService{Store: store}.Create(context.Background(), models.Client{
		FirstName: "Amel",
		LastName:  "Ben Ali",
		Phone:     "+216 20 000 000",
		Email:     email,
	})
	require.NoError(t, err)
	return c
}

func seedTrip(t *testing.T, store *memStore, capacity int, adult, child string) models.Trip {
	t.Helper()
	trip, err := TripService{Store: store, Now: fixedNow}.Create(context.Background(), TripInput{
		Title:         "Sahara circuit",
		DepartureCity: "Tunis",
		StartDate:     today.AddDate(0, 2, 0),
		EndDate:       today.AddDate(0, 2, 6),
		AdultPrice:    dec(adult),
		ChildPrice:    dec(child),
		Capacity:      capacity,
	})
	require.NoError(t, err)
	return trip
}

func someTravelers(n int) []TravelerInput {
	out := make([]TravelerInput, n)
	for i := range out {
		out[i] = TravelerInput{Name: "Traveler " + string(rune('A'+i%26)), Kind: models.TravelerAdult}
	}
	return out
}
