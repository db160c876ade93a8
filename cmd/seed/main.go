package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/songbook-catalog/internal/config"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/logger"
	"github.com/palemoky/songbook-catalog/internal/seed"
)

var (
	configPath string
	inputPath  string
	outputPath string
	batchSize  int
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Compile a catalogue snapshot into seed SQL",
		Long:  "Read the JSON snapshot of the catalogue and write bulk INSERT statements for a PostgreSQL target",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(verbose)
		},
		RunE: runCompile,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Snapshot JSON (default: seed.input)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "SQL file to write (default: seed.output)")
	rootCmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Rows per INSERT statement (default: seed.batch_size)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot JSON from the store",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Snapshot JSON to write (default: seed.input)")
	rootCmd.AddCommand(exportCmd)

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func orDefault(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	input := orDefault(inputPath, cfg.Seed.Input)
	output := orDefault(outputPath, cfg.Seed.Output)
	if batchSize <= 0 {
		batchSize = cfg.Seed.BatchSize
	}

	stats, err := seed.CompileFile(input, output, batchSize)
	if errors.Is(err, seed.ErrInputNotFound) {
		return fmt.Errorf("%w (run `seed export` first)", err)
	}
	if err != nil {
		return err
	}

	logger.Info("Seed file written", zap.String("input", input), zap.String("output", output))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Table", "Rows", "Statements")
	for _, s := range stats {
		if err := table.Append([]string{s.Table, strconv.Itoa(s.Rows), strconv.Itoa(s.Statements)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Target(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	snap, err := seed.Export(database.NewRepository(db))
	if err != nil {
		return err
	}

	output := orDefault(outputPath, cfg.Seed.Input)
	if err := seed.WriteSnapshot(output, snap); err != nil {
		return err
	}

	logger.Info("Snapshot written",
		zap.String("output", output),
		zap.Int("books", len(snap.Books)),
		zap.Int("songs", len(snap.Songs)))
	return nil
}
