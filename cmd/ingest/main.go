package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/palemoky/songbook-catalog/internal/config"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/loader"
	"github.com/palemoky/songbook-catalog/internal/logger"
	"github.com/palemoky/songbook-catalog/internal/notice"
	"github.com/palemoky/songbook-catalog/internal/processor"
)

var (
	configPath string
	codesFile  string
	verbose    bool
	noNotice   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ingest [code...]",
		Short: "Songbook catalogue ingester",
		Long:  "Fetch product listings by code and store each book with its songs and credits",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(verbose)
		},
		RunE: run,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&codesFile, "codes-file", "f", "", "File with one product code per line (default: ingest.codes_file)")
	rootCmd.Flags().BoolVar(&noNotice, "no-notice", false, "Do not update the notice log")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print row counts of every catalogue table",
		RunE:  runStats,
	})

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Target(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	codes := args
	if len(codes) == 0 {
		path := codesFile
		if path == "" {
			path = cfg.Ingest.CodesFile
		}
		if codes, err = loader.LoadCodes(path); err != nil {
			return err
		}
		logger.Info("Loaded product codes", zap.String("file", path), zap.Int("count", len(codes)))
	}
	if len(codes) == 0 {
		return fmt.Errorf("no product codes given")
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var repo database.RepositoryInterface = database.NewRepository(db)
	if cfg.Ingest.CacheEntities {
		repo = database.NewCachedRepository(database.NewRepository(db))
	}

	fetcher := loader.NewHTTPFetcher(loader.FetcherOptions{
		UserAgent:         cfg.Listing.UserAgent,
		Timeout:           cfg.Listing.Timeout,
		RequestsPerSecond: cfg.Listing.RequestsPerSecond,
		Burst:             cfg.Listing.Burst,
	})

	var notifier processor.Notifier
	if !noNotice && cfg.Notice.Path != "" {
		notifier = notice.New(cfg.Notice.Path, cfg.Notice.Limit, cfg.Notice.EndText)
	}

	progress := mpb.New(mpb.WithWidth(60), mpb.WithRefreshRate(100*time.Millisecond))
	driver := processor.NewDriver(repo, fetcher, notifier, processor.Options{
		BaseURL:          cfg.Listing.BaseURL,
		PaginationSuffix: cfg.Listing.PaginationSuffix,
		PageSize:         cfg.Listing.PageSize,
		Unsplittable:     cfg.Ingest.Unsplittable,
	}).WithProgress(progress)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, runErr := driver.RunAll(ctx, codes)
	progress.Wait()

	if err := printResults(os.Stdout, results); err != nil {
		logger.Warn("Failed to print summary", zap.Error(err))
	}
	if cached, ok := repo.(*database.CachedRepository); ok {
		logger.Debug("Entity cache", zap.Any("sizes", cached.GetCacheStats()))
	}

	return runErr
}

func printResults(w io.Writer, results []*processor.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Code", "Outcome", "Book", "Pages", "Tracks", "Songs", "Failed", "Links", "Duration")

	for _, r := range results {
		outcome := r.Outcome.String()
		if r.Err != nil {
			outcome = "failed"
		}
		if err := table.Append([]string{
			r.Code,
			outcome,
			r.BookName,
			strconv.Itoa(r.Pages),
			strconv.Itoa(r.Tracks),
			strconv.Itoa(r.SongsCreated),
			strconv.Itoa(r.SongsFailed),
			strconv.Itoa(r.Links),
			r.Duration.Round(time.Millisecond).String(),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	counts, err := database.NewRepository(db).Counts()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Table", "Rows")
	for _, c := range counts {
		if err := table.Append([]string{c.Table, strconv.FormatInt(c.Rows, 10)}); err != nil {
			return err
		}
	}
	return table.Render()
}
