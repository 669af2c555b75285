package etl

import (
	"context"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

// PageFetcher reads a paginated WooCommerce listing. FetchPage must be safe
// to call from many goroutines at once.
type PageFetcher interface {
	// Probe requests page 1 and returns the advertised page count.
	Probe(ctx context.Context) (int, error)
	FetchPage(ctx context.Context, page int) PageResult
}

// RecordSource looks a single record up by id.
type RecordSource interface {
	FetchOne(ctx context.Context, id int) (models.Record, error)
}

// Upserter writes one record keyed by its id, replacing any stored copy.
type Upserter interface {
	Upsert(ctx context.Context, rec models.Record) error
}

// RunRecorder persists the outcome of a pipeline run.
type RunRecorder interface {
	RecordRun(ctx context.Context, summary *RunSummary) error
}

// PageResult is the outcome of one page fetch. Records is empty whenever
// Err is set.
type PageResult struct {
	Page    int
	Records []models.Record
	Err     error
}
