package etl

import (
	"context"
	"fmt"

	"github.com/balewgize/WooCommerce-migrate/pkg/logger"
	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

// Importer imports one record by id, bypassing pagination. Each resource
// writes to its own collection only.
type Importer struct {
	Resource    models.Resource
	Source      RecordSource
	Transformer *Transformer
	Validator   *Validator
	Upserter    Upserter
}

func NewImporter(resource models.Resource, source RecordSource, upserter Upserter) *Importer {
	return &Importer{
		Resource:    resource,
		Source:      source,
		Transformer: NewTransformer(resource),
		Validator:   &Validator{},
		Upserter:    upserter,
	}
}

// ImportOne reports whether the record was written. A lookup that comes back
// without an id (deleted or unknown record) is not an error.
func (i *Importer) ImportOne(ctx context.Context, id int) (bool, error) {
	rec, err := i.Source.FetchOne(ctx, id)
	if err != nil {
		return false, err
	}

	if err := i.Validator.ValidateDocument(rec); err != nil {
		logger.Warnf("No %s id for %d, skipping", i.Resource.Name, id)
		return false, nil
	}

	if err := i.Transformer.Normalize(rec); err != nil {
		return false, fmt.Errorf("%s %d: %w", i.Resource.Name, id, err)
	}

	if err := i.Upserter.Upsert(ctx, rec); err != nil {
		return false, err
	}
	logger.Infof("Imported %s %d", i.Resource.Name, id)
	return true, nil
}
