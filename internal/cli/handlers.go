package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balewgize/WooCommerce-migrate/internal/config"
	"github.com/balewgize/WooCommerce-migrate/internal/etl"
	"github.com/balewgize/WooCommerce-migrate/internal/woocommerce"
	"github.com/balewgize/WooCommerce-migrate/pkg/database"
	"github.com/balewgize/WooCommerce-migrate/pkg/logger"
	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

func runImport(cmd *cobra.Command, resource models.Resource, opts *ImportOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := logger.InitLogger(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return err
	}
	defer logger.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	maxThreads := cfg.App.MaxThreads
	if opts.MaxThreads > 0 {
		maxThreads = opts.MaxThreads
	}

	client := woocommerce.NewClient(woocommerce.Options{
		URL:               cfg.Store.URL,
		ConsumerKey:       cfg.Store.ConsumerKey,
		ConsumerSecret:    cfg.Store.ConsumerSecret,
		Version:           cfg.Store.APIVersion,
		Timeout:           cfg.Store.Timeout,
		QueryStringAuth:   cfg.Store.QueryStringAuth,
		RequestsPerSecond: cfg.Store.RequestsPerSecond,
	})

	mongoClient, err := database.ConnectMongo(cfg.DB.MongoURI)
	if err != nil {
		return err
	}
	defer database.DisconnectMongo(mongoClient)

	collection := collectionFor(cfg, resource)
	store := etl.NewMongoUpserter(mongoClient, cfg.DB.Name, collection)
	var upserter etl.Upserter = store
	if opts.DryRun {
		logger.Infof("[DRY RUN] nothing will be written to %s", collection)
		upserter = etl.DryRunUpserter{}
	}

	if opts.ID != 0 {
		fmt.Fprintf(out, "Importing specific %s with ID %d...\n", resource.Noun, opts.ID)
		fetcher := etl.NewAPIFetcher(client, resource, opts.Sort, etl.Window{})
		_, err := etl.NewImporter(resource, fetcher, upserter).ImportOne(ctx, opts.ID)
		return err
	}

	if (opts.After == "") != (opts.Before == "") {
		logger.Warnf("--after and --before must be given together, using relative window")
	}
	window, err := ResolveWindow(opts, time.Now())
	if err != nil {
		return err
	}
	sort := etl.NormalizeSort(opts.Sort)
	fmt.Fprintf(out, "Importing all %s created after '%s' and before '%s' sorted '%s'...\n",
		resource.Name, window.After.Format(time.DateTime), window.Before.Format(time.DateTime), sort)

	pipelineOpts := etl.Options{
		MaxThreads: maxThreads,
		Window:     window,
	}
	if opts.Sync {
		known, err := store.KnownIDs(ctx, window.After, window.Before)
		if err != nil {
			return err
		}
		pipelineOpts.KnownIDs = known
	}
	if cfg.DB.RunCollection != "" {
		pipelineOpts.RunLog = etl.NewMongoRunLog(mongoClient, cfg.DB.Name, cfg.DB.RunCollection)
	}

	fetcher := etl.NewAPIFetcher(client, resource, sort, window)
	summary, runErr := etl.NewPipeline(resource, fetcher, upserter, pipelineOpts).Run(ctx)
	if summary != nil {
		printSummary(cmd, summary)
	}
	return runErr
}

func collectionFor(cfg *config.Config, resource models.Resource) string {
	switch resource.Name {
	case models.Customers.Name:
		return cfg.DB.CustomerCollection
	default:
		return cfg.DB.OrderCollection
	}
}

func printSummary(cmd *cobra.Command, s *etl.RunSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", "--------------------------------------------------")
	fmt.Fprintf(out, "Pages found: %d (failed: %d)\n", s.Pages, s.FailedPages)
	fmt.Fprintf(out, "Written records: %d\n", s.Written)
	fmt.Fprintf(out, "Skipped records: %d\n", s.Skipped)
	if s.Filtered > 0 {
		fmt.Fprintf(out, "Outside date range: %d\n", s.Filtered)
	}
	if s.Dropped > 0 {
		fmt.Fprintf(out, "Dropped (no id): %d\n", s.Dropped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(out, "Failed: %d\n", s.Failed)
	}
}
