package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// DonationReceipt describes a verified donation
type DonationReceipt struct {
	ReceiptNo   string
	OrderID     string
	PaymentID   string
	AmountMinor int64
	Currency    string
	VerifiedAt  time.Time
}

// AmountDisplay formats the amount in major units, e.g. "INR 100.00"
func (r DonationReceipt) AmountDisplay() string {
	return fmt.Sprintf("%s %s", r.Currency, decimal.New(r.AmountMinor, -2).StringFixed(2))
}

// GenerateReceiptPDF renders the receipt as a single-page PDF
func GenerateReceiptPDF(r DonationReceipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "DonateHub")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "DONATION RECEIPT")
	pdf.Ln(12)

	rows := [][2]string{
		{"Receipt No:", r.ReceiptNo},
		{"Date:", r.VerifiedAt.Format("2006-01-02 15:04:05")},
		{"Order ID:", r.OrderID},
		{"Payment ID:", r.PaymentID},
		{"Amount:", r.AmountDisplay()},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(120, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for supporting the developer!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
