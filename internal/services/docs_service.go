package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"carrental/internal/domain/models"
	"carrental/internal/pricing"
	"carrental/internal/repositories"
	"carrental/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService menghasilkan PDF invoice booking & laporan keuangan.
type DocsService struct {
	Bookings  repositories.BookingRepository
	Now       func() time.Time
	RequestID string
	Loader    func(ctx context.Context, code string) (models.Booking, error)
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s DocsService) loadBooking(ctx context.Context, code string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ctx, code)
	}
	return s.Bookings.GetByCode(ctx, code)
}

// BookingInvoice renders the invoice for a booking code.
func (s DocsService) BookingInvoice(ctx context.Context, code string) ([]byte, string, error) {
	b, err := s.loadBooking(ctx, code)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("code=%s", b.Code))
	return buildBookingInvoicePDF(b, s.now())
}

// FinancialSummaryPDF renders an already computed summary.
func (s DocsService) FinancialSummaryPDF(sum models.FinancialSummary) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_financial_summary", fmt.Sprintf("start=%s end=%s", sum.StartDate, sum.EndDate))
	return buildFinancialSummaryPDF(sum, s.now())
}

func serviceLabel(t pricing.ServiceType) string {
	if t == pricing.WithDriver {
		return "Dengan Sopir"
	}
	return "Lepas Kunci"
}

func buildBookingInvoicePDF(b models.Booking, printed time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "No Invoice   : INV-"+b.Code)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Tanggal      : "+printed.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Status       : %s / %s", b.Status, b.PaymentStatus))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ditagihkan kepada:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Nama   : %s", utils.Or(b.CustomerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("No HP  : %s", utils.Or(b.CustomerPhone, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email  : %s", utils.Or(b.CustomerEmail, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Sewa:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Kendaraan : %s (%s)", utils.Or(b.VehicleName, "-"), utils.Or(b.PlateNumber, "-")),
		fmt.Sprintf("Layanan   : %s", serviceLabel(b.Price.ServiceType)),
		fmt.Sprintf("Ambil     : %s, %s", utils.FormatDateTime(b.PickupDate), utils.Or(b.PickupAddress, "Kantor")),
		fmt.Sprintf("Kembali   : %s, %s", utils.FormatDateTime(b.ReturnDate), utils.Or(b.ReturnAddress, "Kantor")),
		fmt.Sprintf("Durasi    : %d hari", b.Price.DurationDays),
	}
	for _, l := range lines {
		pdf.MultiCell(0, 6, l, "", "", false)
	}
	pdf.Ln(4)

	p := b.Price
	rows := [][2]string{
		{fmt.Sprintf("Sewa %d hari x %s", p.DurationDays, utils.FormatRupiah(p.RatePerDay)), utils.FormatRupiah(p.Subtotal)},
	}
	if p.DeliveryFee > 0 {
		rows = append(rows, [2]string{"Biaya antar", utils.FormatRupiah(p.DeliveryFee)})
	}
	if p.ReturnFee > 0 {
		rows = append(rows, [2]string{"Biaya jemput", utils.FormatRupiah(p.ReturnFee)})
	}
	if p.DriverFee > 0 {
		rows = append(rows, [2]string{"Biaya sopir", utils.FormatRupiah(p.DriverFee)})
	}
	rows = append(rows,
		[2]string{"Asuransi", utils.FormatRupiah(p.InsuranceFee)},
		[2]string{"Biaya layanan", utils.FormatRupiah(p.ServiceFee)},
		[2]string{"Subtotal sebelum pajak", utils.FormatRupiah(p.TotalBeforeTax)},
		[2]string{"Pajak", utils.FormatRupiah(p.Tax)},
	)
	for _, r := range rows {
		pdf.CellFormat(120, 7, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, r[1], "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, utils.FormatRupiah(p.Total), "T", 1, "R", false, 0, "")

	if b.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Catatan: "+b.Notes, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s_%s.pdf", utils.SafeFilenamePart(b.Code), utils.SafeFilenamePart(b.CustomerName))
	return buf.Bytes(), filename, nil
}

func buildFinancialSummaryPDF(sum models.FinancialSummary, printed time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Laporan Keuangan", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "LAPORAN KEUANGAN")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Periode : %s s/d %s", sum.StartDate, sum.EndDate))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Dicetak : "+printed.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	totals := [][2]string{
		{"Jumlah booking", fmt.Sprintf("%d", sum.BookingCount)},
		{"Pendapatan kotor", utils.FormatRupiah(sum.GrossRevenue)},
		{"Pendapatan sewa", utils.FormatRupiah(sum.RentalRevenue)},
		{"Pendapatan biaya tambahan", utils.FormatRupiah(sum.FeeRevenue)},
		{"Pajak terkumpul", utils.FormatRupiah(sum.TaxCollected)},
		{"Rata-rata per booking", utils.FormatRupiah(sum.AverageBookingValue)},
	}
	for _, r := range totals {
		pdf.CellFormat(110, 7, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 7, r[1], "", 1, "R", false, 0, "")
	}

	if len(sum.ByServiceType) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Per jenis layanan")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, st := range sum.ByServiceType {
			pdf.CellFormat(80, 7, serviceLabel(pricing.ServiceType(st.ServiceType)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%d", st.BookingCount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(70, 7, utils.FormatRupiah(st.Revenue), "1", 1, "R", false, 0, "")
		}
	}

	if len(sum.Monthly) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Per bulan")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 10)
		for _, h := range []struct {
			w     float64
			label string
		}{{40, "Bulan"}, {30, "Booking"}, {60, "Pendapatan"}, {50, "Pajak"}} {
			pdf.CellFormat(h.w, 7, h.label, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, m := range sum.Monthly {
			pdf.CellFormat(40, 7, m.Month, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%d", m.BookingCount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(60, 7, utils.FormatRupiah(m.Revenue), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 7, utils.FormatRupiah(m.Tax), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("LAPORAN_KEUANGAN_%s_%s.pdf", sum.StartDate, sum.EndDate)
	return buf.Bytes(), filename, nil
}
