// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = os.Stderr.WriteString(newTheme(os.Stderr).failure(err.Error()) + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "json2sql",
		Short:         "Generate MySQL CREATE TABLE statements from JSON, YAML or TOML table descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the TOML config file (default json2sql.toml if present)")

	rootCmd.AddCommand(genCmd(&configPath), syncCmd(&configPath), checkCmd(&configPath))
	return rootCmd
}
