// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markbatch/internal/convert"
	"github.com/pdiddy/markbatch/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversion runs",
	Long: `History lists batch runs recorded in the run-history database, most
recent first. Point it at the ledger directly with --ledger, or give the
input or output directory of past runs and the default ledger location
is used. With --run, the per-file outcomes of one run are shown.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", "", "run-history database path")
	historyCmd.Flags().StringP("input", "i", "", "input directory of past runs (used to derive the ledger path)")
	historyCmd.Flags().StringP("output", "o", "", "output directory of past runs (used to derive the ledger path)")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-file outcomes for this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	inputDir, _ := cmd.Flags().GetString("input")
	outputDir, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")

	if ledgerPath == "" {
		switch {
		case outputDir != "":
			ledgerPath = ledger.DefaultPath(outputDir)
		case inputDir != "":
			ledgerPath = ledger.DefaultPath(convert.DefaultOutputDir(inputDir))
		default:
			return fmt.Errorf("provide --ledger, or --input/--output to locate the run history")
		}
	}

	store, err := ledger.Open(ledgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID > 0 {
		return printRunJobs(store, runID)
	}

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("#%-4d %s  %-5s %s -> %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Format, r.InputDir, r.OutputDir)
		fmt.Printf("      %d converted, %d skipped, %d failed (total %d)\n",
			r.Converted, r.Skipped, r.Failed, r.Total())
	}
	return nil
}

func printRunJobs(store *ledger.Store, runID int64) error {
	jobs, err := store.RunJobs(runID)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Printf("No job records for run #%d.\n", runID)
		return nil
	}
	for _, j := range jobs {
		if j.Message != "" {
			fmt.Printf("%-10s %s (%s)\n", j.Status, j.File, j.Message)
			continue
		}
		fmt.Printf("%-10s %s\n", j.Status, j.File)
	}
	return nil
}
