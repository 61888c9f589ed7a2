package ingredient

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Acex619/gusto-food-scanner/internal/logger"
	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const (
	DefaultLookupTimeout = 3 * time.Second
	DefaultConcurrency   = 4
)

// Kinds of enrichment lookups that can degrade.
const (
	KindDefinition = "definition"
	KindReferences = "references"
)

// DefinitionSource looks up a short textual definition. An empty string with a
// nil error means no definition is known.
type DefinitionSource interface {
	Name() string
	LookupDefinition(ctx context.Context, name string) (string, error)
}

// ReferenceSource looks up citations for an ingredient.
type ReferenceSource interface {
	Name() string
	LookupReferences(ctx context.Context, name string) ([]model.ScientificReference, error)
}

type Options struct {
	Definitions   DefinitionSource
	References    ReferenceSource
	LookupTimeout time.Duration
	Concurrency   int
	Logger        logger.Logger
}

// Enricher turns raw ingredient entries into ingredient analyses.
type Enricher struct {
	defs        DefinitionSource
	refs        ReferenceSource
	timeout     time.Duration
	concurrency int
	log         logger.Logger
}

func NewEnricher(opts Options) *Enricher {
	e := &Enricher{
		defs:        opts.Definitions,
		refs:        opts.References,
		timeout:     opts.LookupTimeout,
		concurrency: opts.Concurrency,
		log:         opts.Logger,
	}
	if e.timeout <= 0 {
		e.timeout = DefaultLookupTimeout
	}
	if e.concurrency <= 0 {
		e.concurrency = DefaultConcurrency
	}
	if e.log == nil {
		e.log = logger.NewNop()
	}
	return e
}

// Report summarises how enrichment went for one product.
type Report struct {
	// Degraded lists the lookup kinds that failed at least once, in first-seen
	// order.
	Degraded []string
	// Contributors names the external sources whose content was used.
	Contributors []string
}

func (r Report) IsDegraded() bool {
	return len(r.Degraded) > 0
}

type itemReport struct {
	degraded     []string
	contributors []string
}

// Analyze filters, classifies and enriches ingredients. Entries are processed
// concurrently and returned in input order. Lookup failures never abort the
// analysis; they fall back to curated or generated content.
func (e *Enricher) Analyze(ctx context.Context, raws []model.RawIngredient, productLabels []string) ([]model.IngredientAnalysis, Report) {
	kept := Filter(raws)
	results := make([]model.IngredientAnalysis, len(kept))
	reports := make([]itemReport, len(kept))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, raw := range kept {
		g.Go(func() error {
			results[i], reports[i] = e.enrichOne(ctx, raw, productLabels)
			return nil
		})
	}
	_ = g.Wait()

	var report Report
	for _, r := range reports {
		report.Degraded = appendUnique(report.Degraded, r.degraded...)
		report.Contributors = appendUnique(report.Contributors, r.contributors...)
	}
	return results, report
}

func (e *Enricher) enrichOne(ctx context.Context, raw model.RawIngredient, labels []string) (model.IngredientAnalysis, itemReport) {
	name := strings.TrimSpace(raw.Name())
	c := Classify(raw, labels)
	var rep itemReport

	return model.IngredientAnalysis{
		Name:            name,
		RiskLevel:       c.RiskLevel,
		Description:     e.definition(ctx, raw, name, c, &rep),
		Concerns:        c.Concerns,
		References:      e.references(ctx, raw, name, c, &rep),
		GMOStatus:       c.GMOStatus,
		GMOConfidence:   c.GMOConfidence,
		Sustainability:  c.Sustainability,
		Allergenicity:   c.Allergenicity,
		ProcessingLevel: c.ProcessingLevel,
	}, rep
}

// definition walks the chain: provider text, external source, curated table,
// template. The first candidate within the length bounds wins.
func (e *Enricher) definition(ctx context.Context, raw model.RawIngredient, name string, c Classification, rep *itemReport) string {
	if d, ok := FitDefinition(raw.Description); ok {
		return d
	}
	if e.defs != nil {
		lctx, cancel := context.WithTimeout(ctx, e.timeout)
		text, err := e.defs.LookupDefinition(lctx, name)
		cancel()
		if err != nil {
			e.log.Warn("Definition lookup failed",
				logger.String("source", e.defs.Name()),
				logger.String("ingredient", name),
				logger.Error(err),
			)
			rep.degraded = appendUnique(rep.degraded, KindDefinition)
		} else if d, ok := FitDefinition(text); ok {
			rep.contributors = appendUnique(rep.contributors, e.defs.Name())
			return d
		}
	}
	if d, ok := CuratedDefinition(name); ok {
		if fitted, ok := FitDefinition(d); ok {
			return fitted
		}
	}
	return TemplateDefinition(name, c)
}

// references walks the chain: provider citations, curated table, external
// source, synthesized regulatory citations.
func (e *Enricher) references(ctx context.Context, raw model.RawIngredient, name string, c Classification, rep *itemReport) []model.ScientificReference {
	if len(raw.References) > 0 {
		return cloneReferences(raw.References, maxReferences)
	}
	if refs, ok := CuratedReferences(name); ok {
		return refs
	}
	if e.refs != nil {
		lctx, cancel := context.WithTimeout(ctx, e.timeout)
		refs, err := e.refs.LookupReferences(lctx, name)
		cancel()
		if err != nil {
			e.log.Warn("Reference lookup failed",
				logger.String("source", e.refs.Name()),
				logger.String("ingredient", name),
				logger.Error(err),
			)
			rep.degraded = appendUnique(rep.degraded, KindReferences)
		} else if len(refs) > 0 {
			rep.contributors = appendUnique(rep.contributors, e.refs.Name())
			return cloneReferences(refs, maxReferences)
		}
	}
	return SynthesizedReferences(name, c.RiskLevel)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
