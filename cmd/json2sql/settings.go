package main

import (
	"os"

	"github.com/spf13/cobra"

	"json2sql/internal/config"
)

// commonFlags are shared by the commands that compile descriptions.
type commonFlags struct {
	prefix string
	format string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.prefix, "prefix", "p", "", "Table name prefix (overrides the config file)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: sql, json or summary")
}

// loadConfig resolves settings with the precedence flags > environment > file > defaults.
func loadConfig(cmd *cobra.Command, path string, flags *commonFlags) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if flags != nil {
		if cmd.Flags().Changed("prefix") {
			cfg.Prefix = flags.prefix
		}
		if cmd.Flags().Changed("format") {
			cfg.Format = flags.format
		}
	}
	return cfg, nil
}
