package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/kpraj/billbook/internal/business"
	"github.com/kpraj/billbook/internal/invoice"
)

// PDF renders the invoice as an A4 PDF with the same content and field
// order as the HTML document.
func (r *Renderer) PDF(inv *invoice.Invoice, profile *business.Profile) ([]byte, error) {
	doc := buildDocument(inv, profile, pdfCurrency)

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the embedded creation date to the invoice itself so identical
	// invoices produce identical bytes.
	pdf.SetCreationDate(inv.CreatedAt)
	pdf.AddPage()

	// Business identity block.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, doc.BusinessName, "", 1, "L", false, 0, "")

	if doc.BusinessAddress != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, doc.BusinessAddress, "", "L", false)
	}

	pdf.Ln(6)

	// Title, number and issue date.
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "#"+doc.Number, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+doc.IssueDate, "", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Bill-to block.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, doc.CustomerName, "", 1, "L", false, 0, "")

	if doc.CustomerAddress != "" {
		pdf.CellFormat(0, 6, doc.CustomerAddress, "", 1, "L", false, 0, "")
	}

	if doc.CustomerEmail != "" {
		pdf.CellFormat(0, 6, doc.CustomerEmail, "", 1, "L", false, 0, "")
	}

	pdf.CellFormat(0, 6, doc.CustomerPhone, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Itemized table.
	const (
		colProduct = 80.0
		colQty     = 25.0
		colRate    = 40.0
		colTotal   = 45.0
	)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(99, 102, 241)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(colProduct, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colRate, 8, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(51, 51, 51)

	for _, line := range doc.Lines {
		pdf.CellFormat(colProduct, 8, line.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colRate, 8, line.UnitPrice, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 8, line.LineTotal, "1", 1, "R", false, 0, "")
	}

	// Grand total.
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(colProduct+colQty, 10, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colRate, 10, "Grand Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(colTotal, 10, doc.GrandTotal, "T", 1, "R", false, 0, "")
	pdf.Ln(14)

	// Closing statement.
	pdf.SetFont("Helvetica", "I", 12)
	pdf.CellFormat(0, 8, doc.Closing, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: writing pdf: %v", ErrUnavailable, err)
	}

	return buf.Bytes(), nil
}
