// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the markbatch CLI, a batch
// document-to-Markdown converter backed by the Datalab.to API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markbatch/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the process-wide logger, configured before any command runs.
var logger = slog.Default()

// closeLog flushes the log file, when one is configured.
var closeLog = func() error { return nil }

// rootCmd is the base command for the markbatch CLI.
var rootCmd = &cobra.Command{
	Use:   "markbatch",
	Short: "Batch-convert documents to Markdown via the Datalab API",
	Long: `markbatch converts directories of documents (PDF, epub, HTML) into
Markdown by delegating conversion to the Datalab.to API. Conversions run
concurrently under a fixed cap, already-converted files are skipped, and
each run ends with a summary of outcomes.

Re-running a batch is safe: a document whose Markdown output already
exists is never re-submitted and never overwritten.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logFile, _ := cmd.Flags().GetString("log-file")
		verbose, _ := cmd.Flags().GetBool("verbose")

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		logger, closeLog = logging.Setup(logFile, level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./markbatch.yaml or ~/.config/markbatch/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable informational logging")
	rootCmd.PersistentFlags().String("log-file", "", "append JSON logs to this file")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "markbatch"))
		}
	}

	viper.SetEnvPrefix("MARKBATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}
