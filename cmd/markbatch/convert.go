// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/markbatch/internal/convert"
	"github.com/pdiddy/markbatch/internal/datalab"
	"github.com/pdiddy/markbatch/internal/ledger"
	"github.com/pdiddy/markbatch/internal/report"
	"github.com/pdiddy/markbatch/internal/secrets"
	"github.com/pdiddy/markbatch/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "markbatch/0.1"
	secretsDir       = ".secrets/"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a directory of documents to Markdown",
	Long: `Convert scans the input directory for documents of the selected format
(pdf, epub, html, or all), submits each to the Datalab API, and writes
one .md file per document into the output directory. Files whose output
already exists are skipped without a network call.

A batch with failed conversions still exits 0; failures are listed in
the final summary. Only a missing API key is fatal.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "input directory containing documents (required)")
	convertCmd.Flags().StringP("output", "o", "", "output directory for Markdown files (default: input directory with \"_Markdown\" suffix)")
	convertCmd.Flags().StringP("format", "f", "pdf", "input format to convert: pdf, epub, html, or all")
	convertCmd.Flags().Int("concurrency", convert.DefaultConcurrency, "maximum simultaneous conversion calls")
	convertCmd.Flags().Duration("timeout", 0, "per-request HTTP timeout (default 120s)")
	convertCmd.Flags().String("ledger", "", "run-history database path (default: <output>/.markbatch/history.db)")
	convertCmd.Flags().Bool("no-ledger", false, "skip recording the run in the history database")
	convertCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input")
	outputDir, _ := cmd.Flags().GetString("output")
	formatArg, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if outputDir == "" {
		outputDir = convert.DefaultOutputDir(inputDir)
	}

	format := types.InputFormat(formatArg)
	if !format.Valid() {
		return fmt.Errorf("invalid format %q: choose pdf, epub, html, or all", formatArg)
	}

	apiKey, err := secrets.ResolveAPIKey(secretsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: API key not found or not configured")
		fmt.Fprintln(os.Stderr, secrets.Remediation)
		return err
	}

	cfg := types.ConversionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		InputDir:    inputDir,
		OutputDir:   outputDir,
		Format:      format,
		Concurrency: concurrency,
	}

	files, err := convert.DiscoverFiles(cfg.InputDir, cfg.Format)
	if err != nil {
		return err
	}

	fmt.Printf("Input directory: %s\n", cfg.InputDir)
	fmt.Printf("Output directory: %s\n", cfg.OutputDir)
	fmt.Printf("Format: %s\n", cfg.Format)
	fmt.Printf("\nFound %d files to convert\n\n", len(files))

	if len(files) == 0 {
		fmt.Printf("No %s files found in the input directory\n", cfg.Format)
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	client, err := datalab.NewClient(apiKey, cfg.HTTPConfig)
	if err != nil {
		return err
	}
	defer client.Close()

	jobs := convert.MakeJobs(files, cfg.OutputDir)
	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Converting files"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	progress := func(res types.JobResult) {
		bar.Describe(fmt.Sprintf("%s: %s", res.Status, res.File))
		bar.Add(1)
	}

	startedAt := time.Now()
	batch := convert.RunBatch(cmd.Context(), convert.NewDatalabConverter(client), jobs, cfg.Concurrency, progress, os.Stdout)
	finishedAt := time.Now()
	bar.Finish()

	convert.PrintSummary(os.Stdout, batch, cfg.OutputDir)
	recordRun(cmd, cfg, batch, startedAt, finishedAt)

	logger.Info("batch finished",
		"converted", batch.Converted, "skipped", batch.Skipped, "failed", batch.Failed)
	return nil
}

// recordRun writes the manifest and the ledger entry. Both are
// best-effort: a reporting failure never fails a finished batch.
func recordRun(cmd *cobra.Command, cfg types.ConversionConfig, batch convert.BatchResult, startedAt, finishedAt time.Time) {
	if err := report.Write(report.Manifest{
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Format:     cfg.Format,
		Converted:  batch.Converted,
		Skipped:    batch.Skipped,
		Failed:     batch.Failed,
		Jobs:       batch.Results,
	}); err != nil {
		logger.Warn("could not write run manifest", "error", err)
	}

	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger {
		return
	}
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	if ledgerPath == "" {
		ledgerPath = ledger.DefaultPath(cfg.OutputDir)
	}

	store, err := ledger.Open(ledgerPath)
	if err != nil {
		logger.Warn("could not open run ledger", "error", err)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(ledger.Run{
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Format:     cfg.Format,
		Converted:  batch.Converted,
		Skipped:    batch.Skipped,
		Failed:     batch.Failed,
	}, batch.Results); err != nil {
		logger.Warn("could not record run in ledger", "error", err)
	}
}
