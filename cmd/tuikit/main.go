package main

import (
	"fmt"
	"os"

	"github.com/loganmanery/tuikit/internal/config"
	logger "github.com/loganmanery/tuikit/internal/logging"
	"github.com/loganmanery/tuikit/internal/version"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	debug    bool
	username string

	Logger logger.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tuikit",
	Short: "tuikit - task and budget trackers with optional encryption at rest",
	Long: `tuikit keeps per-user task lists and expense ledgers in local CSV and JSON
files. Users who register with --encrypt have every data file encrypted with a
key derived from their password. There is no way to recover the data if the
password is lost.

Usage:
  tuikit tasks register --user alice --encrypt
  tuikit tasks add --user alice "buy milk"
  tuikit budget summary --user alice --month 2026-10
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		Logger.Debugf("data dir %s, credential backend %s", cfg.DataDir, cfg.CredentialBackend)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tuikit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newBudgetCmd())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}
