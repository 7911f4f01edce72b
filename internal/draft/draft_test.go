package draft_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpraj/billbook/internal/catalog"
	"github.com/kpraj/billbook/internal/draft"
	"github.com/kpraj/billbook/internal/money"
)

func product(name string, priceMinor int64) catalog.Product {
	return catalog.Product{
		ID:        uuid.New(),
		Name:      name,
		UnitPrice: money.FromMinor(priceMinor),
	}
}

func TestDraft_AddProduct_IncrementsExistingLine(t *testing.T) {
	widget := product("Widget", 1000)

	d := draft.New()
	d.AddProduct(widget)
	d.AddProduct(widget)

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)

	// Adding twice is the same as adding once and setting quantity to 2.
	other := draft.New()
	other.AddProduct(widget)
	other.SetQuantity(widget.ID, 2)

	assert.Equal(t, other.Lines(), lines)
}

func TestDraft_AddProduct_SnapshotsPriceAndName(t *testing.T) {
	widget := product("Widget", 1000)

	d := draft.New()
	d.AddProduct(widget)

	// A later catalog change must not affect the captured line.
	widget.Name = "Widget v2"
	widget.UnitPrice = money.FromMinor(9999)

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Widget", lines[0].ProductName)
	assert.Equal(t, int64(1000), lines[0].UnitPrice.Minor())
}

func TestDraft_SetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int64{0, -1} {
		widget := product("Widget", 1000)

		d := draft.New()
		d.AddProduct(widget)
		d.SetQuantity(widget.ID, qty)

		assert.Empty(t, d.Lines(), "qty %d should remove the line", qty)
		assert.Equal(t, draft.StateEmpty, d.State())
	}
}

func TestDraft_RemoveProduct(t *testing.T) {
	widget := product("Widget", 1000)
	gadget := product("Gadget", 450)

	d := draft.New()
	d.AddProduct(widget)
	d.AddProduct(gadget)

	d.RemoveProduct(widget.ID)

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, gadget.ID, lines[0].ProductID)

	// Removing an absent product is a no-op.
	d.RemoveProduct(widget.ID)
	assert.Len(t, d.Lines(), 1)
}

func TestDraft_LinesKeepFirstAddOrder(t *testing.T) {
	widget := product("Widget", 1000)
	gadget := product("Gadget", 450)
	doohickey := product("Doohickey", 250)

	d := draft.New()
	d.AddProduct(widget)
	d.AddProduct(gadget)
	d.AddProduct(doohickey)
	d.AddProduct(gadget) // bump, must not reorder

	names := []string{}
	for _, li := range d.Lines() {
		names = append(names, li.ProductName)
	}

	assert.Equal(t, []string{"Widget", "Gadget", "Doohickey"}, names)
}

func TestTotal_MatchesExample(t *testing.T) {
	widget := product("Widget", 1000) // 10.00
	gadget := product("Gadget", 450)  // 4.50

	d := draft.New()
	d.AddProduct(widget)
	d.SetQuantity(widget.ID, 3)
	d.AddProduct(gadget)
	d.SetQuantity(gadget.ID, 2)

	assert.Equal(t, "39.00", d.Total().String())

	lines := d.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "30.00", lines[0].Subtotal().String())
	assert.Equal(t, "9.00", lines[1].Subtotal().String())
}

func TestTotal_OrderIndependent(t *testing.T) {
	lines := []draft.LineItem{
		{ProductID: uuid.New(), UnitPrice: money.FromMinor(199), Quantity: 7},
		{ProductID: uuid.New(), UnitPrice: money.FromMinor(450), Quantity: 2},
		{ProductID: uuid.New(), UnitPrice: money.FromMinor(1000), Quantity: 3},
		{ProductID: uuid.New(), UnitPrice: money.FromMinor(5), Quantity: 999},
	}

	want := draft.Total(lines)

	rng := rand.New(rand.NewSource(42))
	for range 10 {
		rng.Shuffle(len(lines), func(i, j int) {
			lines[i], lines[j] = lines[j], lines[i]
		})

		assert.Equal(t, want, draft.Total(lines))
	}
}

func TestDraft_StateMachine(t *testing.T) {
	widget := product("Widget", 1000)

	d := draft.New()
	assert.Equal(t, draft.StateEmpty, d.State())

	d.AddProduct(widget)
	assert.Equal(t, draft.StateHasItems, d.State())

	d.RemoveProduct(widget.ID)
	assert.Equal(t, draft.StateEmpty, d.State())

	d.AddProduct(widget)
	require.NoError(t, d.BeginSubmit())
	assert.Equal(t, draft.StateSubmitting, d.State())

	// Re-triggering while in flight is rejected.
	assert.ErrorIs(t, d.BeginSubmit(), draft.ErrSubmitInFlight)

	// Failure preserves the draft for correction.
	d.EndSubmit(false)
	assert.Equal(t, draft.StateHasItems, d.State())
	assert.Len(t, d.Lines(), 1)

	// Success resets to empty.
	require.NoError(t, d.BeginSubmit())
	d.EndSubmit(true)
	assert.Equal(t, draft.StateEmpty, d.State())
	assert.Empty(t, d.Lines())
}
