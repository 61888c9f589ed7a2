package gusto

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Acex619/gusto-food-scanner/internal/logger"
	"github.com/Acex619/gusto-food-scanner/internal/metrics"
	"github.com/Acex619/gusto-food-scanner/internal/model"
)

var (
	analyzeJSON        bool
	analyzeNoCache     bool
	analyzeNoWikipedia bool
	analyzeMetrics     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <barcode>",
	Short: "Analyze a product by barcode",
	Long:  "Resolve a barcode across the provider tiers and print environmental, nutritional and safety scores with per-ingredient analysis.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		barcode := strings.TrimSpace(args[0])
		if barcode == "" {
			return fmt.Errorf("barcode is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		baseLog, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = baseLog.Sync() }()
		log := baseLog.With(logger.String("request_id", uuid.NewString()))

		m, err := metrics.New()
		if err != nil {
			return err
		}
		deps := resolverDeps{
			cfg:       cfg,
			log:       log,
			metrics:   m,
			wikipedia: cfg.WikipediaEnabled && !analyzeNoWikipedia,
		}

		run := func() error {
			resolver, err := newResolver(deps)
			if err != nil {
				return err
			}
			result, err := resolver.Analyze(cmd.Context(), barcode)
			if err != nil {
				return err
			}
			if analyzeJSON {
				err = printJSON(cmd.OutOrStdout(), result)
			} else {
				printAnalysis(cmd.OutOrStdout(), result)
			}
			if err != nil {
				return err
			}
			if analyzeMetrics {
				return m.WriteText(outOrErr(cmd, analyzeJSON))
			}
			return nil
		}

		if !cfg.CacheEnabled || analyzeNoCache {
			return run()
		}
		return withDB(cfg.DBPath, func(sqldb *sql.DB) error {
			deps.db = sqldb
			return run()
		})
	},
}

func printAnalysis(w io.Writer, r model.AnalysisResult) {
	fmt.Fprintf(w, "Product: %s\n", r.ProductName)
	if r.Brand != "" {
		fmt.Fprintf(w, "Brand: %s\n", r.Brand)
	}
	fmt.Fprintf(w, "Barcode: %s\n", r.Barcode)
	fmt.Fprintf(w, "Category: %s\n", r.Category)
	fmt.Fprintf(w, "Source: %s (%s tier)\n", r.DataSource, r.Tier)
	fmt.Fprintf(w, "Overall: %d/100 (trust %d)\n", r.OverallScore, r.TrustScore)
	fmt.Fprintf(w, "Environmental: %d  Nutritional: %d  Safety: %d\n", r.EnvironmentalScore, r.NutritionalScore, r.SafetyScore)
	fmt.Fprintf(w, "GMO free: %s\n", yesNo(r.GMOFree))
	if r.Nutritional.Grade != "" {
		fmt.Fprintf(w, "Nutri-Score: %s\n", strings.ToUpper(r.Nutritional.Grade))
	}
	fmt.Fprintf(w, "Per 100g: %.0f kcal, sugar %.1fg, salt %.2fg, saturated fat %.1fg, fiber %.1fg\n",
		r.Nutritional.Calories, r.Nutritional.Sugar, r.Nutritional.Salt, r.Nutritional.SaturatedFat, r.Nutritional.Fiber)
	fmt.Fprintf(w, "Carbon: %.2f kg/100g  Water: %.1f L/100g  (%s, confidence %d)\n",
		r.Environmental.CarbonFootprint, r.Environmental.WaterFootprint, r.Environmental.Methodology, r.Environmental.ConfidenceScore)
	if len(r.Market.AvailableIn) > 0 {
		fmt.Fprintf(w, "Available in: %s\n", strings.Join(r.Market.AvailableIn, ", "))
	}
	if len(r.Concerns) > 0 {
		fmt.Fprintln(w, "Concerns:")
		for _, c := range r.Concerns {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	fmt.Fprintf(w, "Ingredients (%d):\n", len(r.Ingredients))
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "  %s [%s] gmo=%s(%d) sustainability=%s allergenicity=%s processing=%s\n",
			ing.Name, ing.RiskLevel, ing.GMOStatus, ing.GMOConfidence, ing.Sustainability, ing.Allergenicity, ing.ProcessingLevel)
		for _, c := range ing.Concerns {
			fmt.Fprintf(w, "    ! %s\n", c)
		}
	}
	fmt.Fprintf(w, "Last updated: %s\n", r.LastUpdated)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Bypass the local record cache")
	analyzeCmd.Flags().BoolVar(&analyzeNoWikipedia, "no-wikipedia", false, "Skip Wikipedia definitions and references")
	analyzeCmd.Flags().BoolVar(&analyzeMetrics, "metrics", false, "Print run counters after the analysis (stderr with --json)")
	rootCmd.AddCommand(analyzeCmd)
}
