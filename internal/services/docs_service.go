package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// DocsService renders printable documents: reservation vouchers, payment
// receipts and cash reports.
type DocsService struct {
	Store     UnitOfWork
	Agency    string
	Currency  string
	RequestID string
	Now       func() time.Time
}

type voucherData struct {
	Reservation models.ReservationDetail
	Trip        models.Trip
	Client      models.Client
}

type receiptData struct {
	Payment     models.Payment
	Reservation models.Reservation
	Purchase    models.Purchase
	Client      models.Client
}

func (s DocsService) ReservationVoucher(ctx context.Context, id int64) ([]byte, string, error) {
	var d voucherData
	err := s.Store.Do(ctx, func(tx Tx) error {
		r, err := tx.Reservations.Get(ctx, id)
		if err != nil {
			return err
		}
		d.Reservation.Reservation = r
		if d.Reservation.Travelers, err = tx.Reservations.Travelers(ctx, id); err != nil {
			return err
		}
		if d.Reservation.Rooms, err = tx.Reservations.Rooms(ctx, id); err != nil {
			return err
		}
		if r.TripID > 0 {
			if d.Trip, err = tx.Trips.Get(ctx, r.TripID); err != nil {
				return err
			}
		}
		d.Client, err = tx.Clients.Get(ctx, r.ClientID)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if d.Reservation.Status == models.ReservationCancelled {
		return nil, "", domain.UserError{Action: "voucher", Msg: "no voucher for a cancelled reservation"}
	}
	utils.LogEvent(s.RequestID, "docs", "voucher", "voucher generated for "+d.Reservation.Number)
	return s.buildVoucherPDF(d)
}

func (s DocsService) PaymentReceipt(ctx context.Context, id int64) ([]byte, string, error) {
	var d receiptData
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		if d.Payment, err = tx.Payments.Get(ctx, id); err != nil {
			return err
		}
		if d.Payment.ReservationID > 0 {
			if d.Reservation, err = tx.Reservations.Get(ctx, d.Payment.ReservationID); err != nil {
				return err
			}
		}
		if d.Payment.PurchaseID > 0 {
			if d.Purchase, err = tx.Purchases.Get(ctx, d.Payment.PurchaseID); err != nil {
				return err
			}
		}
		if d.Payment.ClientID > 0 {
			d.Client, err = tx.Clients.Get(ctx, d.Payment.ClientID)
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if d.Payment.Status != models.PaymentPaid {
		return nil, "", domain.UserError{Action: "receipt", Msg: fmt.Sprintf("payment %s is %s, receipts are issued for paid payments", d.Payment.Number, d.Payment.Status)}
	}
	utils.LogEvent(s.RequestID, "docs", "receipt", "receipt generated for "+d.Payment.Number)
	return s.buildReceiptPDF(d)
}

func (s DocsService) CashReport(ctx context.Context, rng domain.DateRange) ([]byte, string, error) {
	rep, err := CashService{Store: s.Store, RequestID: s.RequestID}.Report(ctx, rng)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "cash_report", fmt.Sprintf("cash report generated, %d entries", len(rep.Entries)))
	return s.buildCashReportPDF(rep)
}

func (s DocsService) money(v decimal.Decimal) string {
	return utils.FormatAmount(v, utils.Fallback(s.Currency, "TND"))
}

func newDocument(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func (s DocsService) header(pdf *gofpdf.Fpdf, tr func(string) string, title, number string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, tr(utils.Fallback(s.Agency, "Agence de voyage")))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	if number != "" {
		pdf.Cell(0, 6, tr("No "+number))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Issued "+utils.FormatDate(clock(s.Now)))
	pdf.Ln(10)
}

func output(pdf *gofpdf.Fpdf, filename string) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), filename, nil
}

func (s DocsService) buildVoucherPDF(d voucherData) ([]byte, string, error) {
	r := d.Reservation
	pdf, tr := newDocument("Voucher")
	s.header(pdf, tr, "TRAVEL VOUCHER", r.Number)

	lines := []string{
		fmt.Sprintf("Client       : %s", utils.Fallback(d.Client.FullName, "-")),
		fmt.Sprintf("Phone        : %s", utils.Fallback(d.Client.Phone, "-")),
		fmt.Sprintf("Trip         : %s", utils.Fallback(d.Trip.Title, "-")),
		fmt.Sprintf("Departure    : %s", utils.Fallback(d.Trip.DepartureCity, "-")),
		fmt.Sprintf("Dates        : %s to %s", utils.Fallback(utils.FormatDate(d.Trip.StartDate), "-"), utils.Fallback(utils.FormatDate(d.Trip.EndDate), "-")),
		fmt.Sprintf("Status       : %s", r.Status),
		fmt.Sprintf("Travelers    : %d (%d adults, %d children)", r.TotalTravelers, r.Adults, r.Children),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	if len(r.Travelers) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Travelers")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, t := range r.Travelers {
			pdf.Cell(0, 6, tr(fmt.Sprintf("%d) %s (%s)", i+1, t.Name, t.Kind)))
			pdf.Ln(6)
		}
	}

	if len(r.Rooms) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Rooms")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, a := range r.Rooms {
			pdf.Cell(0, 6, tr(fmt.Sprintf("%d x %s, %d nights at %s", a.Rooms, a.RoomType, a.Nights, s.money(a.NightlyPrice))))
			pdf.Ln(6)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Price")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Transport", s.money(r.TransportPrice)},
		{"Lodging", s.money(r.LodgingPrice)},
		{"Catering", s.money(r.CateringPrice)},
		{"Guide", s.money(r.GuidePrice)},
		{"Equipment", s.money(r.EquipmentPrice)},
		{"Room supplement", s.money(r.RoomSupplement)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, s.money(r.Total), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 6, "Paid", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, s.money(r.AmountPaid), "", 1, "R", false, 0, "")
	pdf.CellFormat(60, 6, "Remaining", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, s.money(r.AmountDue), "", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this voucher on departure day.", "", "", false)

	filename := fmt.Sprintf("VOUCHER_%s.pdf", utils.SafeFilenamePart(r.Number+"_"+d.Client.FullName))
	return output(pdf, filename)
}

func (s DocsService) buildReceiptPDF(d receiptData) ([]byte, string, error) {
	p := d.Payment
	pdf, tr := newDocument("Receipt")
	s.header(pdf, tr, "PAYMENT RECEIPT", p.Number)

	lines := []string{
		fmt.Sprintf("Date         : %s", utils.FormatDate(p.Date)),
		fmt.Sprintf("Kind         : %s", p.Kind),
		fmt.Sprintf("Method       : %s", p.Method),
	}
	if p.BankReference != "" {
		lines = append(lines, fmt.Sprintf("Reference    : %s", p.BankReference))
	}
	if p.Kind == models.PaymentCustomer {
		lines = append(lines,
			fmt.Sprintf("Received from: %s", utils.Fallback(d.Client.FullName, "-")),
			fmt.Sprintf("Reservation  : %s (%s)", utils.Fallback(d.Reservation.Number, "-"), p.Installment),
			fmt.Sprintf("Remaining    : %s", s.money(d.Reservation.AmountDue)),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("Paid to      : %s", utils.Fallback(d.Purchase.SupplierName, "-")),
			fmt.Sprintf("Purchase     : %s", utils.Fallback(d.Purchase.Number, "-")),
		)
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 9, "Amount: "+s.money(p.Amount))
	pdf.Ln(12)

	filename := fmt.Sprintf("RECEIPT_%s.pdf", utils.SafeFilenamePart(p.Number))
	return output(pdf, filename)
}

func (s DocsService) buildCashReportPDF(rep CashReport) ([]byte, string, error) {
	pdf, tr := newDocument("Cash report")
	s.header(pdf, tr, "CASH REPORT", "")

	period := fmt.Sprintf("Period: %s to %s", utils.Fallback(utils.FormatDate(rep.From), "start"), utils.Fallback(utils.FormatDate(rep.To), "today"))
	pdf.Cell(0, 6, period)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Opening balance: "+s.money(rep.Opening))
	pdf.Ln(10)

	widths := []float64{24, 30, 12, 54, 20, 25, 25}
	heads := []string{"Date", "Number", "Dir", "Description", "Status", "Amount", "Balance"}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range heads {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, e := range rep.Entries {
		desc := e.Description
		if len(desc) > 32 {
			desc = desc[:32]
		}
		cells := []string{
			utils.FormatDate(e.Date),
			e.Number,
			string(e.Direction),
			tr(desc),
			string(e.Status),
			e.Amount.StringFixed(2),
			e.BalanceAfter.StringFixed(2),
		}
		for i, c := range cells {
			align := "L"
			if i >= 5 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Inflow: "+s.money(rep.Totals.Inflow))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Outflow: "+s.money(rep.Totals.Outflow))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Closing balance: "+s.money(rep.Closing))
	pdf.Ln(8)

	filename := fmt.Sprintf("CASH_%s_%s.pdf",
		utils.SafeFilenamePart(utils.Fallback(utils.FormatDate(rep.From), "start")),
		utils.SafeFilenamePart(utils.Fallback(utils.FormatDate(rep.To), utils.FormatDate(clock(s.Now)))))
	return output(pdf, filename)
}
