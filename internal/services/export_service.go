package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"
)

// ExportService writes ledger and reservation extracts as CSV attachments.
type ExportService struct {
	Store     UnitOfWork
	RequestID string
}

var cashCSVHeader = []string{"number", "date", "direction", "payment_id", "method", "description", "status", "amount", "balance_before", "balance_after"}

func (s ExportService) CashCSV(ctx context.Context, rng domain.DateRange) ([]byte, string, error) {
	entries, err := CashService{Store: s.Store}.ListEntries(ctx, rng)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cashCSVHeader); err != nil {
		return nil, "", err
	}
	for _, e := range entries {
		paymentID := ""
		if e.PaymentID > 0 {
			paymentID = strconv.FormatInt(e.PaymentID, 10)
		}
		if err := w.Write([]string{
			e.Number,
			utils.FormatDate(e.Date),
			string(e.Direction),
			paymentID,
			string(e.Method),
			e.Description,
			string(e.Status),
			utils.FormatMoney(e.Amount),
			utils.FormatMoney(e.BalanceBefore),
			utils.FormatMoney(e.BalanceAfter),
		}); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "export", "cash", fmt.Sprintf("cash export, %d rows", len(entries)))
	return buf.Bytes(), exportName("cash", rng), nil
}

var reservationCSVHeader = []string{"number", "date", "status", "trip_id", "client_id", "adults", "children",
	"transport", "lodging", "catering", "guide", "equipment", "supplement", "total", "paid", "due"}

func (s ExportService) ReservationsCSV(ctx context.Context, f domain.ListFilter) ([]byte, string, error) {
	list, err := ReservationService{Store: s.Store}.List(ctx, f)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reservationCSVHeader); err != nil {
		return nil, "", err
	}
	for _, r := range list {
		if err := w.Write(reservationRow(r)); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "export", "reservations", fmt.Sprintf("reservation export, %d rows", len(list)))
	return buf.Bytes(), exportName("reservations", f.Range), nil
}

func reservationRow(r models.Reservation) []string {
	return []string{
		r.Number,
		utils.FormatDate(r.Date),
		string(r.Status),
		strconv.FormatInt(r.TripID, 10),
		strconv.FormatInt(r.ClientID, 10),
		strconv.Itoa(r.Adults),
		strconv.Itoa(r.Children),
		utils.FormatMoney(r.TransportPrice),
		utils.FormatMoney(r.LodgingPrice),
		utils.FormatMoney(r.CateringPrice),
		utils.FormatMoney(r.GuidePrice),
		utils.FormatMoney(r.EquipmentPrice),
		utils.FormatMoney(r.RoomSupplement),
		utils.FormatMoney(r.Total),
		utils.FormatMoney(r.AmountPaid),
		utils.FormatMoney(r.AmountDue),
	}
}

func exportName(kind string, rng domain.DateRange) string {
	from := utils.Fallback(utils.FormatDate(rng.From), "start")
	to := utils.Fallback(utils.FormatDate(rng.To), "end")
	return fmt.Sprintf("%s_%s_%s.csv", kind, from, to)
}
