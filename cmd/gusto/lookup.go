package gusto

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Acex619/gusto-food-scanner/internal/model"
	"github.com/Acex619/gusto-food-scanner/internal/service"
)

var (
	lookupProvider string
	lookupJSON     bool
)

// Swapped in tests.
var providerSourceFactory = func(provider string, opts service.SourceOptions) (service.Source, error) {
	src, err := service.NewProviderSource(provider, opts)
	if err != nil {
		return nil, err
	}
	return src, nil
}

type lookupResult struct {
	Provider string              `json:"provider"`
	Product  *model.RawProduct   `json:"product"`
	Quality  service.DataQuality `json:"quality"`
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Fetch the raw normalized record from one provider",
	Long:  "Query a single provider without scoring or caching. Useful for checking what a tier knows about a barcode.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		barcode := strings.TrimSpace(args[0])
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src, err := providerSourceFactory(lookupProvider, service.SourceOptions{
			USDAAPIKey:       cfg.USDAAPIKey,
			UPCItemDBAPIKey:  cfg.UPCItemDBAPIKey,
			UPCItemDBKeyType: cfg.UPCItemDBKeyType,
			FetchTimeout:     cfg.FetchTimeout,
		})
		if err != nil {
			return err
		}
		product, err := src.FetchProduct(cmd.Context(), barcode)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%s: %w %s", src.Name(), service.ErrNotFound, barcode)
		}
		result := lookupResult{
			Provider: src.Name(),
			Product:  product,
			Quality:  service.ScoreDataQuality(product, time.Now()),
		}
		if lookupJSON {
			return printJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provider: %s (%s tier)\n", result.Provider, src.Tier())
		fmt.Fprintf(out, "Barcode: %s\n", product.Code)
		fmt.Fprintf(out, "Name: %s\n", product.Name)
		fmt.Fprintf(out, "Brand: %s\n", product.Brand)
		if len(product.Categories) > 0 {
			fmt.Fprintf(out, "Categories: %s\n", strings.Join(product.Categories, ", "))
		}
		if product.IngredientsText != "" {
			fmt.Fprintf(out, "Ingredients: %s\n", product.IngredientsText)
		} else {
			fmt.Fprintf(out, "Ingredients: %d parsed\n", len(product.Ingredients))
		}
		fmt.Fprintf(out, "Quality: %d (%s)\n", result.Quality.Score, strings.Join(result.Quality.Reasons, ", "))
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupProvider, "provider", service.ProviderOpenFoodFacts, "Provider: openfoodfacts|usda|upcitemdb")
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Print the record as JSON")
	rootCmd.AddCommand(lookupCmd)
}
