package cli

import (
	"fmt"
	"time"

	"github.com/balewgize/WooCommerce-migrate/internal/etl"
	"github.com/balewgize/WooCommerce-migrate/pkg/utils"
)

// ResolveWindow turns the date flags into a run window. Explicit --after and
// --before win when both are given; otherwise the window ends now and starts
// --days ago (same clock time) or, for today, --hours ago (at least one).
// now is read as a wall clock: its zone is dropped, matching the naive
// timestamps the store speaks.
func ResolveWindow(opts *ImportOptions, now time.Time) (etl.Window, error) {
	if opts.After != "" && opts.Before != "" {
		after, err := utils.ParseISODateTime(opts.After)
		if err != nil {
			return etl.Window{}, fmt.Errorf("invalid --after: %w", err)
		}
		before, err := utils.ParseISODateTime(opts.Before)
		if err != nil {
			return etl.Window{}, fmt.Errorf("invalid --before: %w", err)
		}
		if after.After(before) {
			return etl.Window{}, fmt.Errorf("--after %s is later than --before %s", opts.After, opts.Before)
		}
		return etl.Window{After: after, Before: before}, nil
	}

	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)

	var after time.Time
	if opts.Days > 0 {
		after = wall.AddDate(0, 0, -opts.Days)
	} else {
		hours := opts.Hours
		if hours < 1 {
			hours = 1
		}
		after = wall.Add(-time.Duration(hours) * time.Hour)
	}
	return etl.Window{After: after, Before: wall}, nil
}
