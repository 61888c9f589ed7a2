package gusto

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print effective settings with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		entries := cfg.Entries()
		if configJSON {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		out := cmd.OutOrStdout()
		if cfg.ConfigFile != "" {
			fmt.Fprintf(out, "config file: %s\n", cfg.ConfigFile)
		} else {
			fmt.Fprintln(out, "config file: (none)")
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%-22s %-30s %s\n", e.Key, e.Env, e.Value)
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
