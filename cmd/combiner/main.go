// Package main provides the CLI entry point for the combiner.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine"
	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/output"
)

var (
	outputPath string
	configPath string
	monthly    string
	plSheets   []string
	bsSheet    string
	dbSheet    string
	appendMode bool
	workers    int
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "combiner [root-dir]",
		Short: "Merge monthly financial workbooks into one combined workbook",
		Long: `combiner walks a root/<YYYY>/<MM.YYYY>/ folder tree, reads the monthly
workbook in each month folder, and merges the P&L, BS Condensed and
DataBase sheets across all months into a single combined workbook.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "combined.xlsx", "Output workbook path (relative paths resolve under root-dir)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file with sheet aliases and folder pattern")
	rootCmd.Flags().StringVar(&monthly, "monthly", "", "Workbook filename expected in each month folder")
	rootCmd.Flags().StringSliceVar(&plSheets, "pl-sheets", nil, "P&L sheet names to try, in order")
	rootCmd.Flags().StringVar(&bsSheet, "bs-sheet", "", "Balance sheet name")
	rootCmd.Flags().StringVar(&dbSheet, "db-sheet", "", "DataBase sheet name")
	rootCmd.Flags().BoolVar(&appendMode, "append", false, "Append months missing from an existing output instead of rebuilding")
	rootCmd.Flags().IntVar(&workers, "workers", 1, "Concurrent workbook reads")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	root := args[0]
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("root directory not found: %s", root)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts, err := buildOptions(cmd, logger)
	if err != nil {
		return err
	}

	outPath := outputPath
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(root, outPath)
	}

	var existing *models.CombinedWorkbook
	if appendMode {
		prev, err := output.ReadCombined(outPath, opts.Targets)
		if err != nil {
			return fmt.Errorf("reading existing output: %w", err)
		}
		if prev != nil {
			opts.SkipSources = output.Sources(prev)
			logger.Info("appending to existing output", "path", outPath, "sources", len(opts.SkipSources))
		}
		existing = prev
	}

	runner := combine.New(opts)
	wb, err := runner.Run(root)
	if errors.Is(err, combine.ErrNoNewMonths) {
		logger.Info("output already up to date", "path", outPath)
		return nil
	}
	if err != nil {
		return err
	}

	if existing != nil {
		if wb, err = combine.MergeAppend(existing, wb); err != nil {
			return err
		}
	}

	if err := output.Write(outPath, wb); err != nil {
		return err
	}
	for _, t := range wb.Tables {
		logger.Info("wrote sheet", "sheet", t.Name, "rows", len(t.Rows))
	}
	logger.Info("saved combined workbook", "path", outPath)
	return nil
}

func buildOptions(cmd *cobra.Command, logger *slog.Logger) (combine.Options, error) {
	opts := combine.DefaultOptions()
	opts.Logger = logger

	if configPath != "" {
		var err error
		if opts, err = combine.LoadConfig(configPath, opts); err != nil {
			return opts, err
		}
		opts.Logger = logger
	}

	if cmd.Flags().Changed("monthly") {
		opts.MonthlyFilename = monthly
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = workers
	}
	if cmd.Flags().Changed("pl-sheets") {
		setAliases(opts.Targets, combine.KindPL, plSheets)
	}
	if cmd.Flags().Changed("bs-sheet") {
		setAliases(opts.Targets, combine.KindBS, []string{bsSheet})
	}
	if cmd.Flags().Changed("db-sheet") {
		setAliases(opts.Targets, combine.KindDB, []string{dbSheet})
	}

	return opts, combine.Validate(opts)
}

func setAliases(targets []combine.Target, kind combine.Kind, names []string) {
	for i := range targets {
		if targets[i].Kind == kind {
			targets[i].Aliases = names
			return
		}
	}
}
