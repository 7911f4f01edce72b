package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/kpraj/billbook/internal/business"
	"github.com/kpraj/billbook/internal/invoice"
)

// ErrUnavailable means the output surface could not be produced. The invoice
// itself stays valid and can be rendered again later.
var ErrUnavailable = errors.New("rendering surface unavailable")

const (
	// placeholderBusinessName is used when no business profile exists yet.
	placeholderBusinessName = "Your Business"

	closingStatement = "Thank you for your business!"

	htmlCurrency = "₹"
	// Core PDF fonts only cover cp1252, which has no rupee glyph.
	pdfCurrency = "Rs. "
)

//go:embed template.html
var invoiceTemplate string

// document is the flattened, fully formatted view of one invoice. Everything
// volatile is resolved before rendering; the issue date comes from the
// invoice record, never from the clock.
type document struct {
	BusinessName    string
	BusinessAddress string
	LogoURL         string
	Number          string
	IssueDate       string
	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	CustomerPhone   string
	Lines           []documentLine
	GrandTotal      string
	Closing         string
}

type documentLine struct {
	ProductName string
	Quantity    int64
	UnitPrice   string
	LineTotal   string
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing invoice template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// HTML renders the invoice as a printable HTML document. The profile may be
// nil; rendering then falls back to a placeholder business identity.
func (r *Renderer) HTML(inv *invoice.Invoice, profile *business.Profile) ([]byte, error) {
	doc := buildDocument(inv, profile, htmlCurrency)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: executing template: %v", ErrUnavailable, err)
	}

	return buf.Bytes(), nil
}

func buildDocument(inv *invoice.Invoice, profile *business.Profile, currency string) document {
	doc := document{
		BusinessName: placeholderBusinessName,
		Number:       inv.Number,
		IssueDate:    inv.CreatedAt.Format("January 2, 2006"),

		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,

		GrandTotal: currency + inv.GrandTotal.Grouped(),
		Closing:    closingStatement,
	}

	if profile != nil {
		doc.BusinessName = profile.Name
		doc.BusinessAddress = profile.Address
		doc.LogoURL = profile.LogoURL
	}

	doc.Lines = make([]documentLine, len(inv.Lines))
	for i, line := range inv.Lines {
		doc.Lines[i] = documentLine{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   currency + line.UnitPrice.Grouped(),
			LineTotal:   currency + line.LineTotal.Grouped(),
		}
	}

	return doc
}
