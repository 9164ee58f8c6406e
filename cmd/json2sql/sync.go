package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"json2sql/internal/parser/schema"
	"json2sql/internal/sync"
)

func syncCmd(configPath *string) *cobra.Command {
	var (
		flags     commonFlags
		dsn       string
		outputDir string
		noDrop    bool
		quiet     bool
		verify    bool
		timeout   int
	)

	cmd := &cobra.Command{
		Use:   "sync <description.json|yaml|toml>",
		Short: "Recreate the described tables in MySQL and export their schema",
		Long: `Sync drops and recreates every described table in the configured MySQL
database, then writes the server's CREATE TABLE statements for all tables
starting with the prefix to <output-dir>/<first prefix segment>.sql.
Existing data in the synced tables is lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dsn") {
				cfg.MySQL.DSN = dsn
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if noDrop {
				cfg.Sync = new(bool)
			}
			if quiet {
				cfg.Log = new(bool)
			}

			connDSN, err := cfg.DSN()
			if err != nil {
				return err
			}
			if connDSN == "" {
				return errors.New("no database configured; use --dsn, JSON2SQL_DSN or the [mysql] table of json2sql.toml")
			}

			tables, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}

			th := newTheme(cmd.OutOrStdout())
			if cfg.SyncEnabled() && cfg.LogEnabled() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), th.warning(fmt.Sprintf("Dropping and recreating %d tables; their data will be lost", tables.Len())))
			}

			s := sync.New(sync.Options{
				DSN:       connDSN,
				Prefix:    cfg.Prefix,
				OutputDir: cfg.OutputDir,
				Sync:      cfg.SyncEnabled(),
				Log:       cfg.LogEnabled(),
				Verify:    verify,
				Out:       cmd.OutOrStdout(),
			})
			defer func() { _ = s.Close() }()

			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := s.Connect(ctx); err != nil {
				return err
			}
			if err := s.Sync(ctx, tables); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), th.success(fmt.Sprintf("Synced %d tables, schema written to %s", tables.Len(), s.ExportPath())))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&dsn, "dsn", "", "Database connection string, e.g. user:pass@tcp(127.0.0.1:3306)/app")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Directory for the exported schema file (default sql)")
	cmd.Flags().BoolVar(&noDrop, "no-drop", false, "Do not drop tables before creating them")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	cmd.Flags().BoolVar(&verify, "verify", true, "Parse every generated statement before executing anything")
	cmd.Flags().IntVar(&timeout, "timeout", 300, "Timeout for the whole sync in seconds, 0 for none")
	return cmd
}

// withTimeout bounds ctx by seconds; zero or a negative value means no timeout.
func withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}
