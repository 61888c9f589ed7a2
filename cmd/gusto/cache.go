package gusto

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Acex619/gusto-food-scanner/internal/service"
)

var (
	cacheProvider string
	cacheBarcode  string
	cacheLimit    int
	cacheJSON     bool
	cacheAll      bool
	cacheExpired  bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and purge the local product record cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached product records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDB(cfg.DBPath, func(sqldb *sql.DB) error {
			items, err := service.ListProductCache(sqldb, cacheProvider, cacheLimit)
			if err != nil {
				return err
			}
			if cacheJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cached records.")
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\tquality=%d\texpires=%s\n",
					it.Provider, it.Barcode, it.Name, it.Brand, it.Quality, it.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove cached product records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDB(cfg.DBPath, func(sqldb *sql.DB) error {
			n, err := service.PurgeProductCache(sqldb, service.PurgeOptions{
				Provider: cacheProvider,
				Barcode:  cacheBarcode,
				All:      cacheAll,
				Expired:  cacheExpired,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached record(s)\n", n)
			return nil
		})
	},
}

func init() {
	cacheListCmd.Flags().StringVar(&cacheProvider, "provider", "", "Filter by provider")
	cacheListCmd.Flags().IntVar(&cacheLimit, "limit", 100, "Max rows")
	cacheListCmd.Flags().BoolVar(&cacheJSON, "json", false, "Print as JSON")

	cachePurgeCmd.Flags().StringVar(&cacheProvider, "provider", "", "Purge one provider")
	cachePurgeCmd.Flags().StringVar(&cacheBarcode, "barcode", "", "Purge one barcode")
	cachePurgeCmd.Flags().BoolVar(&cacheAll, "all", false, "Purge every cached record")
	cachePurgeCmd.Flags().BoolVar(&cacheExpired, "expired", false, "Purge expired records only")

	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cachePurgeCmd)
}
