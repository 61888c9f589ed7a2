package gusto

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	dbPath     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "gusto",
	Short:         "gusto rates packaged food by barcode",
	Long:          "gusto looks a barcode up across Open Food Facts, USDA FoodData Central and UPCitemdb and reports environmental, nutritional and safety scores with per-ingredient analysis.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to gusto.yaml (default: ./gusto.yaml or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite record cache")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}
