package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// FinanceReportFilter selects trips by start date; Status filters on the
// derived trip status.
type FinanceReportFilter struct {
	Range  domain.DateRange
	Status string
}

// TripFinance sums what a trip brings in and what it costs.
type TripFinance struct {
	TripID       int64             `json:"trip_id"`
	Title        string            `json:"title"`
	StartDate    time.Time         `json:"start_date"`
	Status       models.TripStatus `json:"status"`
	Travelers    int               `json:"travelers"`
	Reservations int               `json:"reservations"`
	Revenue      decimal.Decimal   `json:"revenue"`
	Collected    decimal.Decimal   `json:"collected"`
	Outstanding  decimal.Decimal   `json:"outstanding"`
	Costs        decimal.Decimal   `json:"costs"`
	SupplierPaid decimal.Decimal   `json:"supplier_paid"`
	Margin       decimal.Decimal   `json:"margin"`
}

type ReportsService struct {
	Store     UnitOfWork
	RequestID string
	Now       func() time.Time
}

// reportPage bounds the per-trip reservation and purchase scans.
var reportPage = domain.Pagination{PageSize: 500}

// GetFinanceReport returns one line per trip starting inside the range.
// Revenue counts confirmed and completed reservations; costs count purchases
// that are ordered or paid.
func (s ReportsService) GetFinanceReport(ctx context.Context, f FinanceReportFilter) ([]TripFinance, error) {
	trips, err := TripService{Store: s.Store, Now: s.Now}.List(ctx, domain.ListFilter{Status: f.Status, Pagination: reportPage})
	if err != nil {
		return nil, err
	}

	out := []TripFinance{}
	err = s.Store.Do(ctx, func(tx Tx) error {
		for _, t := range trips {
			if !f.Range.Contains(t.StartDate) {
				continue
			}
			line, err := tripFinance(ctx, tx, t)
			if err != nil {
				return err
			}
			out = append(out, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogEvent(s.RequestID, "reports", "finance", fmt.Sprintf("finance report, %d trips", len(out)))
	return out, nil
}

func tripFinance(ctx context.Context, tx Tx, t models.Trip) (TripFinance, error) {
	line := TripFinance{
		TripID:       t.ID,
		Title:        t.Title,
		StartDate:    t.StartDate,
		Status:       t.Status,
		Revenue:      decimal.Zero,
		Collected:    decimal.Zero,
		Outstanding:  decimal.Zero,
		Costs:        decimal.Zero,
		SupplierPaid: decimal.Zero,
	}

	reservations, err := tx.Reservations.List(ctx, domain.ListFilter{TripID: t.ID, Pagination: reportPage})
	if err != nil {
		return line, err
	}
	for _, r := range reservations {
		if r.Status != models.ReservationConfirmed && r.Status != models.ReservationCompleted {
			continue
		}
		line.Reservations++
		line.Travelers += r.TotalTravelers
		line.Revenue = line.Revenue.Add(r.Total)
		line.Collected = line.Collected.Add(r.AmountPaid)
		line.Outstanding = line.Outstanding.Add(r.AmountDue)
	}

	purchases, err := tx.Purchases.List(ctx, domain.ListFilter{TripID: t.ID, Pagination: reportPage})
	if err != nil {
		return line, err
	}
	for _, p := range purchases {
		if p.Status != models.PurchaseOrder && p.Status != models.PurchasePaid {
			continue
		}
		line.Costs = line.Costs.Add(p.TotalAmount)
		line.SupplierPaid = line.SupplierPaid.Add(p.AmountPaid)
	}
	line.Margin = line.Revenue.Sub(line.Costs)
	return line, nil
}
