package business

import "errors"

// ErrNotFound is returned when no business profile has been configured yet.
// Rendering falls back to a placeholder identity in that case.
var ErrNotFound = errors.New("business profile not found")

// Profile is the seller identity printed on invoices. It is maintained by
// the admin surface; this core only reads it.
type Profile struct {
	Name    string
	Address string
	LogoURL string
}
