package etl

import (
	"fmt"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
	"github.com/balewgize/WooCommerce-migrate/pkg/utils"
)

// Transformer rewrites the date fields of a record in place.
type Transformer struct {
	DateFields []string
}

func NewTransformer(resource models.Resource) *Transformer {
	return &Transformer{DateFields: resource.DateFields}
}

// Normalize parses every listed field holding a non-empty string. Absent,
// null, empty and already converted values are left untouched, so calling
// it twice is harmless.
func (t *Transformer) Normalize(rec models.Record) error {
	for _, field := range t.DateFields {
		val, ok := rec[field]
		if !ok || val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok || str == "" {
			continue
		}
		parsed, err := utils.ParseISODateTime(str)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		rec[field] = parsed
	}
	return nil
}
