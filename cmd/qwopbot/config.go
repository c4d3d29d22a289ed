package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qwop-bot/internal/config"
)

var flagWrite string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the file search and flag overrides, as
YAML. With --write the configuration is saved instead, which is a quick way
to start a user config file.

Examples:
  qwopbot config
  qwopbot config --write ~/.qwopbot/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagWrite != "" {
			if err := cfg.WriteFile(flagWrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", config.ExpandHome(flagWrite))
			return nil
		}

		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", cfg.Source, data)
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&flagWrite, "write", "", "Write the configuration to this path")
}
