package etl

import (
	"errors"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

var ErrMissingID = errors.New("record has no id")

// Validator guards the write path.
type Validator struct {
	// Window is applied to date_created when the API cannot filter by
	// date itself. Zero means no client-side filtering.
	Window Window
}

func NewValidator(resource models.Resource, window Window) *Validator {
	v := &Validator{}
	if !resource.ServerSideRange {
		v.Window = window
	}
	return v
}

// ValidateDocument rejects records without a usable id.
func (v *Validator) ValidateDocument(rec models.Record) error {
	if _, ok := rec.ID(); !ok {
		return ErrMissingID
	}
	return nil
}

// InWindow reports whether a record belongs to the run. Only date_created
// is read, raw or normalized; records without a parseable one are kept.
func (v *Validator) InWindow(rec models.Record) bool {
	if v.Window.IsZero() {
		return true
	}
	created, ok := rec.Time("date_created")
	if !ok {
		return true
	}
	return v.Window.Contains(created)
}
