package catalog

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/money"
)

var ErrNotFound = errors.New("product not found")

// Product is a purchasable catalog item. The catalog is owned elsewhere;
// this service only reads snapshots of it.
type Product struct {
	ID        uuid.UUID
	Name      string
	UnitPrice money.Amount
}
