package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/balewgize/WooCommerce-migrate/pkg/logger"
	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

const DefaultMaxThreads = 10

// ErrRecordsFailed is returned when at least one record could not be
// normalized or written.
var ErrRecordsFailed = errors.New("records failed to import")

type Options struct {
	// MaxThreads bounds concurrent page fetches. Defaults to 10.
	MaxThreads int
	Window     Window
	// KnownIDs, when set, turns on sync mode: records whose id is in the
	// set are skipped instead of written.
	KnownIDs KnownIDs
	// RunLog, when set, receives the summary of every run.
	RunLog RunRecorder
}

// Pipeline fetches every page of one resource concurrently and upserts the
// records one page at a time as fetches complete.
type Pipeline struct {
	Resource    models.Resource
	Fetcher     PageFetcher
	Upserter    Upserter
	Transformer *Transformer
	Validator   *Validator
	MaxThreads  int
	KnownIDs    KnownIDs
	RunLog      RunRecorder
}

func NewPipeline(resource models.Resource, fetcher PageFetcher, upserter Upserter, opts Options) *Pipeline {
	maxThreads := opts.MaxThreads
	if maxThreads <= 0 {
		maxThreads = DefaultMaxThreads
	}
	return &Pipeline{
		Resource:    resource,
		Fetcher:     fetcher,
		Upserter:    upserter,
		Transformer: NewTransformer(resource),
		Validator:   NewValidator(resource, opts.Window),
		MaxThreads:  maxThreads,
		KnownIDs:    opts.KnownIDs,
		RunLog:      opts.RunLog,
	}
}

// RunSummary holds the counters of a single run. Only the draining loop
// writes to it.
type RunSummary struct {
	RunID       string
	Resource    string
	StartedAt   time.Time
	FinishedAt  time.Time
	Pages       int
	FailedPages int
	Written     int
	Skipped     int
	Filtered    int
	Dropped     int
	Failed      int
	Err         string
}

func (s *RunSummary) Status() string {
	switch {
	case s.Err != "":
		return "failed"
	case s.Failed > 0 || s.FailedPages > 0:
		return "partial"
	default:
		return "success"
	}
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("pages: %d (failed %d), written: %d, skipped: %d, filtered: %d, dropped: %d, failed: %d",
		s.Pages, s.FailedPages, s.Written, s.Skipped, s.Filtered, s.Dropped, s.Failed)
}

func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Resource:  p.Resource.Name,
		StartedAt: time.Now().UTC(),
	}
	log := logger.With("run_id", summary.RunID, "resource", p.Resource.Name)

	if p.KnownIDs != nil {
		log.Infof("Sync mode: %d %s already in DB", len(p.KnownIDs), p.Resource.Name)
	}

	// 1. Probe
	total, err := p.Fetcher.Probe(ctx)
	if err != nil {
		summary.Err = err.Error()
		p.finish(ctx, summary)
		return summary, err
	}
	summary.Pages = total
	log.Infof("Total pages: %d", total)
	if total == 0 {
		log.Infof("Nothing to import")
		p.finish(ctx, summary)
		return summary, nil
	}

	// 2. Dispatch
	results := p.dispatch(ctx, total)

	// 3. Drain in completion order
	done := 0
	for res := range results {
		done++
		p.processPage(ctx, summary, res)
		log.Infof("page %d (%d/%d)", res.Page, done, total)
	}

	// 4. Report
	if err := ctx.Err(); err != nil {
		summary.Err = err.Error()
	}
	p.finish(context.WithoutCancel(ctx), summary)
	log.Infof("Run finished. %s", summary)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("%s import interrupted: %w", p.Resource.Name, err)
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d %s", ErrRecordsFailed, summary.Failed, p.Resource.Name)
	}
	return summary, nil
}

// dispatch starts one fetch per page on a pool of MaxThreads goroutines and
// closes the returned channel once every fetch has reported.
func (p *Pipeline) dispatch(ctx context.Context, total int) <-chan PageResult {
	results := make(chan PageResult)

	var g errgroup.Group
	g.SetLimit(p.MaxThreads)

	go func() {
		for page := 1; page <= total; page++ {
			page := page
			g.Go(func() error {
				results <- p.fetch(ctx, page)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()
	return results
}

// fetch converts a panicking fetcher into a failed page so siblings keep
// running.
func (p *Pipeline) fetch(ctx context.Context, page int) (res PageResult) {
	defer func() {
		if r := recover(); r != nil {
			res = PageResult{Page: page, Err: fmt.Errorf("fetch page %d panicked: %v", page, r)}
		}
	}()
	return p.Fetcher.FetchPage(ctx, page)
}

func (p *Pipeline) processPage(ctx context.Context, s *RunSummary, res PageResult) {
	if res.Err != nil {
		s.FailedPages++
		logger.Warnf("Skipping %s page %d: %v", p.Resource.Name, res.Page, res.Err)
		return
	}
	for _, rec := range res.Records {
		p.processRecord(ctx, s, rec)
	}
}

func (p *Pipeline) processRecord(ctx context.Context, s *RunSummary, rec models.Record) {
	if err := p.Validator.ValidateDocument(rec); err != nil {
		s.Dropped++
		logger.Warnf("No %s id, skipping", p.Resource.Name)
		return
	}
	id, _ := rec.ID()

	// Out-of-range records are never normalized.
	if !p.Validator.InWindow(rec) {
		s.Filtered++
		return
	}

	if err := p.Transformer.Normalize(rec); err != nil {
		s.Failed++
		logger.Errorf("Skipping %s %v due to transform error: %v", p.Resource.Name, id, err)
		return
	}

	if p.KnownIDs.Contains(id) {
		s.Skipped++
		return
	}

	if err := p.Upserter.Upsert(ctx, rec); err != nil {
		s.Failed++
		logger.Errorf("Failed to write %s %v: %v", p.Resource.Name, id, err)
		return
	}
	s.Written++
}

func (p *Pipeline) finish(ctx context.Context, s *RunSummary) {
	s.FinishedAt = time.Now().UTC()
	if p.RunLog == nil {
		return
	}
	if err := p.RunLog.RecordRun(ctx, s); err != nil {
		logger.Errorf("Failed to record run %s: %v", s.RunID, err)
	}
}
