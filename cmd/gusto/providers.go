package gusto

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Acex619/gusto-food-scanner/internal/config"
	"github.com/Acex619/gusto-food-scanner/internal/service"
)

const (
	usdaAPIGuideURL      = "https://fdc.nal.usda.gov/api-guide/"
	usdaSignupURL        = "https://api.data.gov/signup/"
	usdaRateLimitSummary = "USDA default rate limit is 1,000 requests per hour per IP; DEMO_KEY is far lower."
	offAPIDocsURL        = "https://openfoodfacts.github.io/openfoodfacts-server/api/"
	offRateLimitSummary  = "Open Food Facts enforces fair-use limits and requires a descriptive User-Agent."
	upcAPIDocsURL        = "https://devs.upcitemdb.com/"
	upcRateLimitSummary  = "UPCitemdb trial allows 100 requests/day; paid plans allow 20,000 or 150,000 lookups/day."
)

var providersJSON bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List product data providers in tier order",
	RunE: func(cmd *cobra.Command, args []string) error {
		providers := service.Providers()
		if providersJSON {
			return printJSON(cmd.OutOrStdout(), providers)
		}
		out := cmd.OutOrStdout()
		for _, p := range providers {
			key := "no key"
			if p.RequiresKey {
				key = "key required"
			}
			fmt.Fprintf(out, "%-14s %-22s %-9s %s\n", p.ID, p.Name, p.Tier, key)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, providerNotes())
		return nil
	},
}

func providerNotes() string {
	var b strings.Builder
	fmt.Fprintf(&b, `Open Food Facts (primary):
- Docs: %s
- %s

USDA FoodData Central (secondary):
- Sign up at: %s
- API docs: %s
- Configure: export %s=your_key_here
- %s

UPCitemdb (tertiary):
- Docs: %s
- Trial endpoint needs no key; for a plan set %s and %s
- %s

Ingredient definitions and references come from Wikipedia when %s is true.
Records are cached locally; see "gusto cache list".`,
		offAPIDocsURL, offRateLimitSummary,
		usdaSignupURL, usdaAPIGuideURL, config.EnvName(config.KeyUSDAAPIKey), usdaRateLimitSummary,
		upcAPIDocsURL, config.EnvName(config.KeyUPCItemDBAPIKey), config.EnvName(config.KeyUPCItemDBKeyType), upcRateLimitSummary,
		config.EnvName(config.KeyWikipediaEnabled))
	return b.String()
}

func init() {
	providersCmd.Flags().BoolVar(&providersJSON, "json", false, "Print providers as JSON")
	rootCmd.AddCommand(providersCmd)
}
