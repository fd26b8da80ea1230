package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/restaurant-biller/utils"
)

// The core PDF fonts have no rupee glyph.
func pdfAmount(v float64) string {
	return "Rs. " + utils.FormatAmount(v)
}

// RenderReceiptPDF writes a one-page A5 receipt for b.
func RenderReceiptPDF(b *PublicBill) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Bill "+utils.ShortID(b.ID), true)
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, b.Restaurants.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if b.Restaurants.Address != "" {
		pdf.CellFormat(0, 5, b.Restaurants.Address, "", 1, "C", false, 0, "")
	}
	if b.Restaurants.Contact != "" {
		pdf.CellFormat(0, 5, "Contact: "+b.Restaurants.Contact, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Bill #%s   Table %d", utils.ShortID(b.ID), b.TableNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+b.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(24, 7, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, it := range b.BillItems {
		pdf.CellFormat(60, 6, it.MenuItems.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, pdfAmount(it.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, pdfAmount(b.LineTotal(i)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(99, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, pdfAmount(b.TotalAmount), "T", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Thank you for dining with us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
