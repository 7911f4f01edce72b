package invoice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/identity"
	"github.com/kpraj/billbook/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// CreateInvoice writes the header and all lines as one atomic unit and
	// fills in the assigned ID, Number and CreatedAt. The number must be
	// unique across concurrent callers.
	CreateInvoice(ctx context.Context, inv *Invoice) error

	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LineParams is one draft line as captured at add time.
type LineParams struct {
	ProductName string
	UnitPrice   money.Amount
	Quantity    int64
}

// SubmitParams is a complete draft handed over for persistence.
type SubmitParams struct {
	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	CustomerPhone   string
	Lines           []LineParams
}

type ListFilter struct {
	CreatedBy *string
}

// maxLineQuantity caps a single line's quantity so that line and grand
// totals stay far away from int64 overflow in minor-unit arithmetic.
const maxLineQuantity = 1_000_000

// Submit validates the draft, freezes its lines, and persists the invoice
// under a storage-issued number. Validation happens strictly before any
// storage interaction. The grand total is recomputed here rather than
// trusted from the client.
func (s *Service) Submit(ctx context.Context, params SubmitParams, submitter identity.Identity) (*Invoice, error) {
	if submitter.IsZero() {
		return nil, ErrAuthRequired
	}

	if err := validate(params); err != nil {
		return nil, err
	}

	lines := make([]Line, len(params.Lines))

	var grandTotal money.Amount

	for i, lp := range params.Lines {
		lineTotal := lp.UnitPrice.MulQty(lp.Quantity)
		grandTotal = grandTotal.Add(lineTotal)

		lines[i] = Line{
			ProductName: lp.ProductName,
			UnitPrice:   lp.UnitPrice,
			Quantity:    lp.Quantity,
			LineTotal:   lineTotal,
		}
	}

	inv := &Invoice{
		CustomerName:    strings.TrimSpace(params.CustomerName),
		CustomerAddress: strings.TrimSpace(params.CustomerAddress),
		CustomerEmail:   strings.TrimSpace(params.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(params.CustomerPhone),
		CreatedBy:       submitter.Subject,
		GrandTotal:      grandTotal,
		Lines:           lines,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

func validate(params SubmitParams) error {
	if strings.TrimSpace(params.CustomerName) == "" {
		return &ValidationError{Field: "customer_name", Reason: "must not be empty"}
	}

	if strings.TrimSpace(params.CustomerPhone) == "" {
		return &ValidationError{Field: "customer_phone", Reason: "must not be empty"}
	}

	if len(params.Lines) == 0 {
		return &ValidationError{Field: "lines", Reason: "at least one line item is required"}
	}

	for _, lp := range params.Lines {
		if strings.TrimSpace(lp.ProductName) == "" {
			return &ValidationError{Field: "lines", Reason: "line has no product name"}
		}

		if lp.Quantity < 1 {
			return &ValidationError{Field: "lines", Reason: "line quantity must be at least 1"}
		}

		if lp.Quantity > maxLineQuantity {
			return &ValidationError{Field: "lines", Reason: "line quantity is too large"}
		}

		if lp.UnitPrice.IsNegative() {
			return &ValidationError{Field: "lines", Reason: "line unit price must not be negative"}
		}
	}

	return nil
}
