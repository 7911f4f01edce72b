package draft

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/catalog"
	"github.com/kpraj/billbook/internal/money"
)

var ErrSubmitInFlight = errors.New("a submission is already in flight")

// State is the lifecycle of one editing session.
type State string

const (
	StateEmpty      State = "empty"
	StateHasItems   State = "has_items"
	StateSubmitting State = "submitting"
)

// LineItem is one (product snapshot, quantity) pair in a draft. Name and
// price are captured when the product is added and never re-fetched.
type LineItem struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   money.Amount
	Quantity    int64
}

// Subtotal is the line's price times its quantity, in minor units.
func (li LineItem) Subtotal() money.Amount {
	return li.UnitPrice.MulQty(li.Quantity)
}

// Draft is the mutable, client-side invoice-in-progress. It is discarded on
// successful submission and never persisted as-is.
type Draft struct {
	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	CustomerPhone   string

	lines      []LineItem
	submitting bool
}

func New() *Draft {
	return &Draft{}
}

// AddProduct adds one unit of the product to the draft. Adding a product
// that is already present increments its quantity instead of creating a
// second line.
func (d *Draft) AddProduct(p catalog.Product) {
	for i := range d.lines {
		if d.lines[i].ProductID == p.ID {
			d.lines[i].Quantity++
			return
		}
	}

	d.lines = append(d.lines, LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.UnitPrice,
		Quantity:    1,
	})
}

// SetQuantity sets the quantity for a product's line. A quantity of zero or
// less removes the line.
func (d *Draft) SetQuantity(productID uuid.UUID, qty int64) {
	if qty <= 0 {
		d.RemoveProduct(productID)
		return
	}

	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines[i].Quantity = qty
			return
		}
	}
}

// RemoveProduct deletes the product's line if present.
func (d *Draft) RemoveProduct(productID uuid.UUID) {
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return
		}
	}
}

// Lines returns the line items in first-add order.
func (d *Draft) Lines() []LineItem {
	out := make([]LineItem, len(d.lines))
	copy(out, d.lines)

	return out
}

// Total is the draft's grand total in minor units.
func (d *Draft) Total() money.Amount {
	return Total(d.lines)
}

// State reports where the session is in its lifecycle.
func (d *Draft) State() State {
	switch {
	case d.submitting:
		return StateSubmitting
	case len(d.lines) > 0:
		return StateHasItems
	default:
		return StateEmpty
	}
}

// BeginSubmit marks the draft as submitting. It fails if a submission is
// already in flight, so one draft can never be submitted twice concurrently.
func (d *Draft) BeginSubmit() error {
	if d.submitting {
		return ErrSubmitInFlight
	}

	d.submitting = true

	return nil
}

// EndSubmit resolves an in-flight submission. On success the draft resets to
// empty; on failure the customer fields and lines are kept so the user can
// correct and resubmit.
func (d *Draft) EndSubmit(succeeded bool) {
	d.submitting = false

	if succeeded {
		d.Reset()
	}
}

// Reset discards all draft state.
func (d *Draft) Reset() {
	*d = Draft{}
}

// Total sums unit price times quantity over the given lines. The result is
// independent of line order because all arithmetic is integer minor units.
func Total(lines []LineItem) money.Amount {
	var total money.Amount
	for _, li := range lines {
		total = total.Add(li.Subtotal())
	}

	return total
}
