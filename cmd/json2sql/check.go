package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"json2sql/internal/output"
	mysqlparser "json2sql/internal/parser/mysql"
	"json2sql/internal/parser/schema"
	"json2sql/internal/sync"
)

func checkCmd(configPath *string) *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "check <description.json|yaml|toml|dump.sql>",
		Short: "Validate a description file or summarize an exported schema",
		Long: `Check validates every table of a description file, compiles it and parses
the generated statement with the TiDB parser. Given a .sql file, such as the
output of sync, it summarizes the CREATE TABLE statements it contains.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath, &flags)
			if err != nil {
				return err
			}
			format := string(output.FormatSummary)
			if cmd.Flags().Changed("format") {
				format = flags.format
			}
			formatter, err := output.NewFormatter(format)
			if err != nil {
				return err
			}

			path := args[0]
			var out string
			if strings.EqualFold(filepath.Ext(path), ".sql") {
				out, err = checkDump(path, formatter)
			} else {
				out, err = checkDescription(cmd, path, cfg.Prefix, formatter)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func checkDump(path string, formatter output.Formatter) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read dump: %w", err)
	}
	tables, err := mysqlparser.NewParser().ParseDump(string(data))
	if err != nil {
		return "", err
	}
	return formatter.FormatDump(tables)
}

func checkDescription(cmd *cobra.Command, path, prefix string, formatter output.Formatter) (string, error) {
	tables, err := schema.LoadFile(path)
	if err != nil {
		return "", err
	}

	errOut := cmd.ErrOrStderr()
	th := newTheme(errOut)
	var problems []error
	for name, t := range tables.All() {
		if err := t.Validate(name); err != nil {
			problems = append(problems, err)
		}
	}

	results, err := sync.New(sync.Options{Prefix: prefix}).Compile(tables)
	if err != nil {
		problems = append(problems, err)
	} else {
		p := mysqlparser.NewParser()
		for _, r := range results {
			summary, err := p.ParseCreateTable(r.Statement)
			if err != nil {
				problems = append(problems, fmt.Errorf("table %q: %w", r.Name, err))
				continue
			}
			if got, want := len(summary.Columns), r.Normalized.Fields.Len(); got != want {
				problems = append(problems, fmt.Errorf("table %q: statement declares %d columns, description has %d", r.Name, got, want))
			}
		}
	}

	if len(problems) > 0 {
		for _, p := range problems {
			_, _ = fmt.Fprintln(errOut, th.failure(p.Error()))
		}
		return "", fmt.Errorf("check failed with %d problems", len(problems))
	}

	_, _ = fmt.Fprintln(errOut, th.success(fmt.Sprintf("%d tables OK", len(results))))
	return formatter.FormatTables(results)
}
