package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/sequence"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func TestClientRepositoryCreate(t *testing.T) {
	conn, mock := newMock(t)
	repo := ClientRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WithArgs("Amel", "Ben Ali", "Amel Ben Ali", models.SexFemale, "TN", nil, "+216 20 000 000", "", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(12, 1))

	c := models.Client{FirstName: "Amel", LastName: "Ben Ali", FullName: "Amel Ben Ali", Sex: models.SexFemale, Nationality: "TN", Phone: "+216 20 000 000"}
	require.NoError(t, repo.Create(context.Background(), &c))
	assert.Equal(t, int64(12), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepositoryGetNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := ClientRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE id=?")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestClientRepositoryDeleteReferenced(t *testing.T) {
	conn, mock := newMock(t)
	repo := ClientRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients")).
		WithArgs(int64(3)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "a foreign key constraint fails"})

	err := repo.Delete(context.Background(), 3)
	assert.True(t, domain.IsConflict(err))
}

func TestClientRepositoryListPaginates(t *testing.T) {
	conn, mock := newMock(t)
	repo := ClientRepository{DB: conn}

	cols := []string{"id", "first_name", "last_name", "full_name", "sex", "nationality", "email", "phone", "address", "id_card_number", "passport_number", "bank_account"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE (full_name LIKE ? OR email LIKE ? OR phone LIKE ?) ORDER BY full_name, id LIMIT ? OFFSET ?")).
		WithArgs("%amel%", "%amel%", "%amel%", 10, 10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Amel", "Ben Ali", "Amel Ben Ali", "female", "TN", "amel@example.com", "200", "", "", "", ""))

	out, err := repo.List(context.Background(), domain.ListFilter{Search: "amel", Pagination: domain.Pagination{Page: 2, PageSize: 10}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.SexFemale, out[0].Sex)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryGetForUpdateLocksRow(t *testing.T) {
	conn, mock := newMock(t)
	repo := TripRepository{DB: conn}

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "title", "destination_id", "departure_city", "start_date", "end_date", "adult_price", "child_price", "capacity", "reserved", "available"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM trips WHERE id=? FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, "Sahara", 2, "Tunis", start, start.AddDate(0, 0, 6), "650.00", "400.00", 20, 18, 2))

	trip, err := repo.GetForUpdate(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Sahara", trip.Title)
	assert.Equal(t, 20, trip.Capacity)
	assert.True(t, decimal.RequireFromString("650").Equal(trip.AdultPrice))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepositoryUpdateSeatsMissingTrip(t *testing.T) {
	conn, mock := newMock(t)
	repo := TripRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trips SET reserved=?, available=? WHERE id=?")).
		WithArgs(3, 17, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSeats(context.Background(), 8, 3, 17)
	assert.True(t, domain.IsNotFound(err))
}

func TestTripRepositoryRemoveOffering(t *testing.T) {
	conn, mock := newMock(t)
	repo := TripRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trip_guides WHERE id=? AND trip_id=?")).
		WithArgs(int64(4), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveOffering(context.Background(), models.OfferingGuides, 1, 4))

	err := repo.RemoveOffering(context.Background(), models.OfferingKind("spa"), 1, 4)
	assert.True(t, domain.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryConfirmedTravelers(t *testing.T) {
	conn, mock := newMock(t)
	repo := ReservationRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(total_travelers),0)")).
		WithArgs(int64(5), models.ReservationConfirmed, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(20))

	n, err := repo.ConfirmedTravelers(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryPaidForReservation(t *testing.T) {
	conn, mock := newMock(t)
	repo := PaymentRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE reservation_id=? AND status=? AND id<>?")).
		WithArgs(int64(3), models.PaymentPaid, int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("1500.00"))

	sum, err := repo.PaidForReservation(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", sum.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCashRepositoryCreateDuplicatePayment(t *testing.T) {
	conn, mock := newMock(t)
	repo := CashRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cash_entries")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	e := models.CashEntry{Number: "CAI/2026/00002", PaymentID: 4, Amount: decimal.NewFromInt(10), Direction: models.CashIn, Status: models.CashValidated}
	err := repo.Create(context.Background(), &e)
	assert.True(t, domain.IsConflict(err))
}

func TestCashRepositoryOpeningBalance(t *testing.T) {
	conn, mock := newMock(t)
	repo := CashRepository{DB: conn}
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status=? AND (entry_date < ? OR (entry_date = ? AND id < ?))")).
		WithArgs(models.CashOut, models.CashValidated, day, day, int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("700.00"))

	sum, err := repo.OpeningBalance(context.Background(), day, 9)
	require.NoError(t, err)
	assert.Equal(t, "700.00", sum.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCashRepositoryListFromOrdersByDayAndID(t *testing.T) {
	conn, mock := newMock(t)
	repo := CashRepository{DB: conn}
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	cols := []string{"id", "number", "entry_date", "direction", "payment_id", "amount", "method", "description", "status", "balance_before", "balance_after"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE entry_date > ? OR (entry_date = ? AND id >= ?) ORDER BY entry_date, id FOR UPDATE")).
		WithArgs(day, day, int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "CAI/2026/00002", day, "out", 0, "300.00", "cash", "", "validated", "0", "0").
			AddRow(5, "CAI/2026/00005", day.AddDate(0, 0, 1), "in", 7, "50.00", "card", "", "pending", "0", "0"))

	entries, err := repo.ListFrom(context.Background(), day, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.CashOut, entries[0].Direction)
	assert.Equal(t, int64(7), entries[1].PaymentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCashRepositoryLastBalanceEmptyLedger(t *testing.T) {
	conn, mock := newMock(t)
	repo := CashRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT balance_after FROM cash_entries")).WillReturnError(sql.ErrNoRows)

	bal, err := repo.LastBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestSequenceRepositoryNext(t *testing.T) {
	conn, mock := newMock(t)
	repo := SequenceRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sequences")).WithArgs(sequence.Reservation).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT next_value FROM sequences WHERE code=? FOR UPDATE")).
		WithArgs(sequence.Reservation).
		WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sequences SET next_value=next_value+1")).WithArgs(sequence.Reservation).WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Next(context.Background(), sequence.Reservation)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	conn, mock := newMock(t)
	repo := UserRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Sami", "sami@agence.tn", "hash", "agent").
		WillReturnError(&mysql.MySQLError{Number: 1062})

	u := models.User{Name: "Sami", Email: "Sami@Agence.tn", PasswordHash: "hash", Role: "agent"}
	assert.True(t, domain.IsConflict(repo.Create(context.Background(), &u)))
}
