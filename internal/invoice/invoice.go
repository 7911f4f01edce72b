package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/money"
)

var (
	ErrNotFound = errors.New("invoice not found")

	// ErrAuthRequired is returned when no submitter identity is available.
	// The caller must (re)authenticate before retrying; the draft is kept.
	ErrAuthRequired = errors.New("authentication required")
)

// ValidationError reports a bad or missing draft field. It is always
// returned before any storage interaction, so the caller can correct the
// draft and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError means storage was unreachable or rejected the write.
// The invoice is guaranteed absent afterwards.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting invoice: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Invoice is an immutable persisted financial record. Once written it has
// no update or delete path.
type Invoice struct {
	ID              uuid.UUID
	Number          string
	CustomerName    string
	CustomerAddress string
	CustomerEmail   string
	CustomerPhone   string
	CreatedBy       string
	CreatedAt       time.Time
	GrandTotal      money.Amount
	Lines           []Line
}

// Line is a frozen snapshot of one draft line item, independent of any
// later catalog changes.
type Line struct {
	ProductName string
	UnitPrice   money.Amount
	Quantity    int64
	LineTotal   money.Amount
}
