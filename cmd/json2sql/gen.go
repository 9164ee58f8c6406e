package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"json2sql/internal/output"
	"json2sql/internal/parser/schema"
	"json2sql/internal/sync"
)

func genCmd(configPath *string) *cobra.Command {
	var (
		flags   commonFlags
		outFile string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "gen <description.json|yaml|toml>",
		Short: "Print the CREATE TABLE statements for a description file",
		Long: `Gen compiles every table of a JSON, YAML or TOML description file into a MySQL
CREATE TABLE statement. Each table gets a leading <name>_id primary key and
trailing update_time and create_time columns. Nothing is executed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath, &flags)
			if err != nil {
				return err
			}
			formatter, err := output.NewFormatter(cfg.Format)
			if err != nil {
				return err
			}

			path := args[0]
			errOut := cmd.ErrOrStderr()
			th := newTheme(errOut)
			generate := func() error {
				tables, err := schema.LoadFile(path)
				if err != nil {
					return err
				}
				results, err := sync.New(sync.Options{Prefix: cfg.Prefix}).Compile(tables)
				if err != nil {
					return err
				}
				out, err := formatter.FormatTables(results)
				if err != nil {
					return err
				}
				if outFile == "" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), out)
					return err
				}
				if err := os.WriteFile(outFile, []byte(out), 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				_, _ = fmt.Fprintln(errOut, th.success(fmt.Sprintf("Output saved to %s", outFile)))
				return nil
			}

			if !watch {
				return generate()
			}
			if err := generate(); err != nil {
				_, _ = fmt.Fprintln(errOut, th.failure(err.Error()))
			}
			return watchFile(cmd.Context(), path, errOut, func() {
				if err := generate(); err != nil {
					_, _ = fmt.Fprintln(errOut, th.failure(err.Error()))
				}
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file for the generated SQL")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate whenever the description file changes")
	return cmd
}
