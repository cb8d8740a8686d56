// Command ledgectl runs the batch drivers and maintenance tasks from a shell
// or an external scheduler.
//
// Exit codes: 0 = success (a run that hit its budget still succeeds),
// 1 = error.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dailylaw/ledge-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "ledgectl",
		Short:         "Ledge batch drivers and maintenance",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("show-log", false, "print the run log to stderr")
	rootCmd.PersistentFlags().String("config", "", "config file (default $CONFIG_PATH or ./config.yaml)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(statusSyncCmd())
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(backfillCmd())
	rootCmd.AddCommand(exploreCmd())
	rootCmd.AddCommand(envCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ledgectl:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := app.BuildInfo()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print build details as JSON")
	return cmd
}
