package gusto

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Acex619/gusto-food-scanner/internal/app"
	"github.com/Acex619/gusto-food-scanner/internal/config"
	"github.com/Acex619/gusto-food-scanner/internal/db"
	"github.com/Acex619/gusto-food-scanner/internal/ingredient"
	"github.com/Acex619/gusto-food-scanner/internal/logger"
	"github.com/Acex619/gusto-food-scanner/internal/metrics"
	"github.com/Acex619/gusto-food-scanner/internal/provider/wikipedia"
	"github.com/Acex619/gusto-food-scanner/internal/service"
)

// Swapped in tests to avoid network access.
var (
	sourceFactory    = service.DefaultSources
	wikipediaFactory = func(cfg config.Config) *wikipedia.Client {
		wcfg := wikipedia.DefaultConfig()
		wcfg.Timeout = cfg.LookupTimeout
		wcfg.CacheTTL = cfg.WikipediaCacheTTL
		wcfg.RateLimit = rate.Limit(cfg.WikipediaRateLimit)
		return wikipedia.New(wcfg)
	}
)

// loadConfig resolves configuration and applies persistent flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(logLevel))
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (logger.Logger, error) {
	return logger.New(logger.Config{Level: cfg.LogLevel})
}

func withDB(path string, run func(*sql.DB) error) error {
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

type resolverDeps struct {
	cfg       config.Config
	db        *sql.DB
	log       logger.Logger
	metrics   *metrics.Metrics
	wikipedia bool
}

// newResolver wires sources, the optional record cache and enrichment.
func newResolver(deps resolverDeps) (*service.Resolver, error) {
	sources, err := sourceFactory(service.SourceOptions{
		USDAAPIKey:       deps.cfg.USDAAPIKey,
		UPCItemDBAPIKey:  deps.cfg.UPCItemDBAPIKey,
		UPCItemDBKeyType: deps.cfg.UPCItemDBKeyType,
		FetchTimeout:     deps.cfg.FetchTimeout,
	})
	if err != nil {
		return nil, err
	}
	if deps.db != nil {
		for i, src := range sources {
			sources[i] = service.NewCachedSource(src, deps.db, service.CacheOptions{
				TTL:     deps.cfg.CacheTTL,
				Logger:  deps.log,
				Metrics: deps.metrics,
			})
		}
	}

	opts := ingredient.Options{
		LookupTimeout: deps.cfg.LookupTimeout,
		Concurrency:   deps.cfg.EnrichConcurrency,
		Logger:        deps.log,
	}
	if deps.wikipedia {
		wiki := wikipediaFactory(deps.cfg)
		opts.Definitions = wiki
		opts.References = wiki
	}
	builder := service.NewBuilder(service.BuilderOptions{
		Enricher: ingredient.NewEnricher(opts),
		Logger:   deps.log,
		Metrics:  deps.metrics,
	})
	return service.NewResolver(builder, sources, service.ResolverOptions{
		Logger:  deps.log,
		Metrics: deps.metrics,
	}), nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

// userMessage maps resolver errors to the line printed on exit.
func userMessage(err error) string {
	var fetchErr *service.FetchError
	if errors.As(err, &fetchErr) {
		return fmt.Sprintf("Error: %s is unavailable: %v", fetchErr.Source, fetchErr.Err)
	}
	return fmt.Sprintf("Error: %v", err)
}

func outOrErr(cmd *cobra.Command, toStderr bool) io.Writer {
	if toStderr {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}
