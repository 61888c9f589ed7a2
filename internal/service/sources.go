package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
	"github.com/Acex619/gusto-food-scanner/internal/provider/openfoodfacts"
	"github.com/Acex619/gusto-food-scanner/internal/provider/upcitemdb"
	"github.com/Acex619/gusto-food-scanner/internal/provider/usda"
)

const (
	ProviderOpenFoodFacts = "openfoodfacts"
	ProviderUSDA          = "usda"
	ProviderUPCItemDB     = "upcitemdb"
	defaultFetchTimeout   = 15 * time.Second
)

// Source fetches one normalized product record. A nil record with a nil error
// means the barcode is unknown to the source.
type Source interface {
	Name() string
	Tier() model.Tier
	FetchProduct(ctx context.Context, barcode string) (*model.RawProduct, error)
}

// ProviderInfo describes a built-in provider.
type ProviderInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Tier        model.Tier `json:"tier"`
	RequiresKey bool       `json:"requires_key"`
}

// Providers lists the built-in providers in tier order.
func Providers() []ProviderInfo {
	return []ProviderInfo{
		{ID: ProviderOpenFoodFacts, Name: "Open Food Facts", Tier: model.TierPrimary},
		{ID: ProviderUSDA, Name: "USDA FoodData Central", Tier: model.TierSecondary, RequiresKey: true},
		{ID: ProviderUPCItemDB, Name: "UPCitemdb", Tier: model.TierTertiary},
	}
}

type SourceOptions struct {
	USDAAPIKey       string
	UPCItemDBAPIKey  string
	UPCItemDBKeyType string
	HTTPClient       *http.Client
	FetchTimeout     time.Duration
	// Now stamps recency in the data-quality score. Defaults to time.Now.
	Now func() time.Time
}

type productClient interface {
	LookupBarcode(ctx context.Context, barcode string) (*model.RawProduct, []byte, error)
}

// ProviderSource adapts a provider client to Source. It validates identity
// fields and attaches a data-quality score to every record it returns.
type ProviderSource struct {
	info    ProviderInfo
	client  productClient
	timeout time.Duration
	now     func() time.Time
}

// NewProviderSource builds the source for a provider id or alias.
func NewProviderSource(provider string, opts SourceOptions) (*ProviderSource, error) {
	id := NormalizeProvider(provider)
	var client productClient
	switch id {
	case ProviderOpenFoodFacts:
		client = &openfoodfacts.Client{HTTPClient: opts.HTTPClient}
	case ProviderUSDA:
		client = &usda.Client{APIKey: opts.USDAAPIKey, HTTPClient: opts.HTTPClient}
	case ProviderUPCItemDB:
		client = &upcitemdb.Client{APIKey: opts.UPCItemDBAPIKey, APIKeyType: opts.UPCItemDBKeyType, HTTPClient: opts.HTTPClient}
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
	info, _ := providerInfo(id)
	return newProviderSource(info, client, opts), nil
}

func newProviderSource(info ProviderInfo, client productClient, opts SourceOptions) *ProviderSource {
	s := &ProviderSource{info: info, client: client, timeout: opts.FetchTimeout, now: opts.Now}
	if s.timeout <= 0 {
		s.timeout = defaultFetchTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// DefaultSources returns the three built-in sources in tier order.
func DefaultSources(opts SourceOptions) ([]Source, error) {
	out := make([]Source, 0, 3)
	for _, p := range Providers() {
		src, err := NewProviderSource(p.ID, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

func (s *ProviderSource) ID() string       { return s.info.ID }
func (s *ProviderSource) Name() string     { return s.info.Name }
func (s *ProviderSource) Tier() model.Tier { return s.info.Tier }

func (s *ProviderSource) FetchProduct(ctx context.Context, barcode string) (*model.RawProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	product, _, err := s.client.LookupBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, &FetchError{Source: s.info.Name, Err: err}
	}
	if product == nil {
		return nil, nil
	}
	if err := validateIdentity(product); err != nil {
		return nil, fmt.Errorf("%s record for %s: %w", s.info.Name, barcode, err)
	}
	if product.Code == "" {
		product.Code = strings.TrimSpace(barcode)
	}
	if product.QualityScore == 0 {
		product.QualityScore = ScoreDataQuality(product, s.now()).Score
	}
	return product, nil
}

func validateIdentity(p *model.RawProduct) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return ErrMalformedRecord
	}
	return nil
}

// NormalizeProvider maps provider aliases to ids. Unknown names map to "".
func NormalizeProvider(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenFoodFacts, "off", "open-food-facts":
		return ProviderOpenFoodFacts
	case ProviderUSDA, "fdc":
		return ProviderUSDA
	case ProviderUPCItemDB, "upc":
		return ProviderUPCItemDB
	default:
		return ""
	}
}

func providerInfo(id string) (ProviderInfo, bool) {
	for _, p := range Providers() {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderInfo{}, false
}
