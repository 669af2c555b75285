package etl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

// fakeFetcher serves fixed pages and records how it was called.
type fakeFetcher struct {
	total    int
	pages    map[int][]models.Record
	fail     map[int]error
	panics   map[int]bool
	probeErr error
	delay    time.Duration

	mu       sync.Mutex
	probes   int
	calls    map[int]int
	inFlight int32
	maxSeen  int32
}

func newFakeFetcher(total int) *fakeFetcher {
	return &fakeFetcher{
		total:  total,
		pages:  map[int][]models.Record{},
		fail:   map[int]error{},
		panics: map[int]bool{},
		calls:  map[int]int{},
	}
}

func (f *fakeFetcher) Probe(ctx context.Context) (int, error) {
	f.mu.Lock()
	f.probes++
	f.mu.Unlock()
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.total, nil
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) PageResult {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[page]++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics[page] {
		panic("boom")
	}
	if err := ctx.Err(); err != nil {
		return PageResult{Page: page, Err: err}
	}
	if err := f.fail[page]; err != nil {
		return PageResult{Page: page, Err: err}
	}
	// Hand out copies so normalization never leaks between runs.
	recs := make([]models.Record, 0, len(f.pages[page]))
	for _, r := range f.pages[page] {
		recs = append(recs, copyRecord(r))
	}
	return PageResult{Page: page, Records: recs}
}

func (f *fakeFetcher) FetchOne(ctx context.Context, id int) (models.Record, error) {
	for _, recs := range f.pages {
		for _, r := range recs {
			if models.IDKey(r[models.IDField]) == models.IDKey(id) {
				return copyRecord(r), nil
			}
		}
	}
	return models.Record{"code": "woocommerce_rest_invalid_id"}, nil
}

func copyRecord(r models.Record) models.Record {
	c := models.Record{}
	for k, v := range r {
		c[k] = v
	}
	return c
}

// memStore is an in-memory Upserter keyed like the Mongo collection.
type memStore struct {
	mu     sync.Mutex
	docs   map[string]models.Record
	writes int
	fail   map[string]error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]models.Record{}, fail: map[string]error{}}
}

func (s *memStore) Upsert(ctx context.Context, rec models.Record) error {
	id, ok := rec.ID()
	if !ok {
		return ErrMissingID
	}
	key := models.IDKey(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[key]; err != nil {
		return err
	}
	s.docs[key] = copyRecord(rec)
	s.writes++
	return nil
}

func (s *memStore) get(id interface{}) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.docs[models.IDKey(id)]
	return r, ok
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

type recordedRuns struct {
	runs []*RunSummary
	err  error
}

func (r *recordedRuns) RecordRun(ctx context.Context, s *RunSummary) error {
	r.runs = append(r.runs, s)
	return r.err
}

var errTransport = errors.New("connection reset by peer")
