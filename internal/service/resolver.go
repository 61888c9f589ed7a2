package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/logger"
	"github.com/Acex619/gusto-food-scanner/internal/metrics"
	"github.com/Acex619/gusto-food-scanner/internal/model"
)

// Resolver tries source tiers in order and builds the analysis from the first
// tier that returns a record. Tiers are never queried concurrently.
type Resolver struct {
	sources []Source
	builder *Builder
	log     logger.Logger
	metrics Recorder
}

type ResolverOptions struct {
	Logger  logger.Logger
	Metrics Recorder
}

func NewResolver(builder *Builder, sources []Source, opts ResolverOptions) *Resolver {
	r := &Resolver{sources: sources, builder: builder, log: opts.Logger, metrics: opts.Metrics}
	if r.log == nil {
		r.log = logger.NewNop()
	}
	if r.metrics == nil {
		r.metrics = nopRecorder{}
	}
	if r.builder == nil {
		r.builder = NewBuilder(BuilderOptions{Logger: r.log, Metrics: r.metrics})
	}
	return r
}

// Analyze resolves barcode to an AnalysisResult. Only the final tier's
// transport error, or ErrNotFound once every tier is exhausted, is returned.
func (r *Resolver) Analyze(ctx context.Context, barcode string) (model.AnalysisResult, error) {
	barcode = strings.TrimSpace(barcode)
	if len(r.sources) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("no product sources configured")
	}

	var lastErr error
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return model.AnalysisResult{}, fmt.Errorf("analyze %s: %w", barcode, err)
		}
		log := r.log.With(
			logger.String("barcode", barcode),
			logger.String("source", src.Name()),
			logger.String("tier", string(src.Tier())),
		)
		start := time.Now()
		product, err := src.FetchProduct(ctx, barcode)
		elapsed := time.Since(start)

		switch {
		case errors.Is(err, ErrMalformedRecord):
			r.metrics.TierAttempt(src.Name(), metrics.OutcomeMalformed)
			log.Warn("malformed record, trying next tier", logger.Error(err), logger.Duration("elapsed", elapsed))
			lastErr = fmt.Errorf("%w %s", ErrNotFound, barcode)
			continue
		case err != nil:
			r.metrics.TierAttempt(src.Name(), metrics.OutcomeError)
			log.Warn("fetch failed, trying next tier", logger.Error(err), logger.Duration("elapsed", elapsed))
			lastErr = err
			continue
		case product == nil:
			r.metrics.TierAttempt(src.Name(), metrics.OutcomeNotFound)
			log.Info("barcode not found", logger.Duration("elapsed", elapsed))
			lastErr = fmt.Errorf("%w %s", ErrNotFound, barcode)
			continue
		}

		result, err := r.build(ctx, product, src)
		if errors.Is(err, ErrMalformedRecord) {
			r.metrics.TierAttempt(src.Name(), metrics.OutcomeMalformed)
			log.Warn("malformed record, trying next tier", logger.Error(err))
			lastErr = fmt.Errorf("%w %s", ErrNotFound, barcode)
			continue
		}
		if err != nil {
			return model.AnalysisResult{}, err
		}
		r.metrics.TierAttempt(src.Name(), metrics.OutcomeFound)
		r.metrics.Analysis(src.Name())
		log.Info("analysis built",
			logger.Int("overall_score", result.OverallScore),
			logger.Int("trust_score", result.TrustScore),
			logger.Int("ingredients", len(result.Ingredients)),
			logger.Duration("elapsed", elapsed),
		)
		return result, nil
	}
	return model.AnalysisResult{}, lastErr
}

func (r *Resolver) build(ctx context.Context, p *model.RawProduct, src Source) (model.AnalysisResult, error) {
	from := Provenance{Source: src.Name(), Tier: src.Tier()}
	if from.Tier == model.TierPrimary {
		return r.builder.Build(ctx, p, from)
	}
	return r.builder.BuildReduced(p, from)
}
