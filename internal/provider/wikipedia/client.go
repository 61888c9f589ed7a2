// Package wikipedia looks up short ingredient definitions from the Wikipedia
// REST page summary endpoint.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/antonholmquist/jason"
	"github.com/k3a/html2text"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const (
	providerName     = "Wikipedia"
	defaultBaseURL   = "https://en.wikipedia.org/api/rest_v1"
	defaultUserAgent = "gusto/1.0 (https://github.com/Acex619/gusto-food-scanner) Go-HTTP-Client"

	// Extracts shorter than this are usually stubs or redirects.
	minExtractLen = 50
	maxExtractLen = 300

	referenceConfidence = 40
)

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	CacheTTL   time.Duration
	RateLimit  rate.Limit
	Burst      int
	HTTPClient *http.Client
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   defaultBaseURL,
		UserAgent: defaultUserAgent,
		Timeout:   5 * time.Second,
		CacheTTL:  24 * time.Hour,
		RateLimit: rate.Limit(5),
		Burst:     5,
	}
}

// Client fetches page summaries. It is safe for concurrent use; summaries and
// misses are cached for CacheTTL.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      *cache.Cache
	limiter    *rate.Limiter
}

type summary struct {
	Title   string
	Extract string
	PageURL string
}

func New(config Config) *Client {
	def := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = def.CacheTTL
	}
	if config.RateLimit == 0 {
		config.RateLimit = def.RateLimit
	}
	if config.Burst == 0 {
		config.Burst = def.Burst
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		cache:      cache.New(config.CacheTTL, config.CacheTTL*2),
		limiter:    rate.NewLimiter(config.RateLimit, config.Burst),
	}
}

func (c *Client) Name() string {
	return providerName
}

// LookupDefinition returns a cleaned summary extract, or "" when Wikipedia
// has no usable article.
func (c *Client) LookupDefinition(ctx context.Context, name string) (string, error) {
	s, err := c.fetchSummary(ctx, name)
	if err != nil || s == nil {
		return "", err
	}
	return CleanExtract(s.Extract), nil
}

// LookupReferences cites the article itself when one exists.
func (c *Client) LookupReferences(ctx context.Context, name string) ([]model.ScientificReference, error) {
	s, err := c.fetchSummary(ctx, name)
	if err != nil || s == nil || s.PageURL == "" {
		return nil, err
	}
	return []model.ScientificReference{{
		Title:      s.Title + " - Wikipedia",
		URL:        s.PageURL,
		Source:     providerName,
		Summary:    CleanExtract(s.Extract),
		Confidence: referenceConfidence,
	}}, nil
}

func (c *Client) fetchSummary(ctx context.Context, name string) (*summary, error) {
	title := articleTitle(name)
	if title == "" {
		return nil, nil
	}
	if cached, found := c.cache.Get(title); found {
		if s, ok := cached.(*summary); ok {
			return s, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wikipedia rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/page/summary/%s", strings.TrimRight(c.config.BaseURL, "/"), url.PathEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read wikipedia response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		c.cache.Set(title, (*summary)(nil), cache.DefaultExpiration)
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wikipedia request failed with status %d", resp.StatusCode)
	}

	s, err := parseSummary(body)
	if err != nil {
		return nil, err
	}
	c.cache.Set(title, s, cache.DefaultExpiration)
	return s, nil
}

// parseSummary returns nil for disambiguation pages and empty extracts.
func parseSummary(body []byte) (*summary, error) {
	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode wikipedia response: %w", err)
	}
	if kind, _ := obj.GetString("type"); kind == "disambiguation" {
		return nil, nil
	}
	extract, _ := obj.GetString("extract")
	if strings.TrimSpace(extract) == "" {
		if extractHTML, err := obj.GetString("extract_html"); err == nil {
			extract = html2text.HTML2Text(extractHTML)
		}
	}
	if strings.TrimSpace(extract) == "" {
		return nil, nil
	}
	title, _ := obj.GetString("title")
	pageURL, _ := obj.GetString("content_urls", "desktop", "page")
	return &summary{Title: title, Extract: extract, PageURL: pageURL}, nil
}

// CleanExtract drops parentheticals, capitalises the first letter and caps
// the length with an ellipsis. Too-short extracts yield "".
func CleanExtract(extract string) string {
	text := parenthetical.ReplaceAllString(extract, "")
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, " ,", ",")
	if utf8.RuneCountInString(text) <= minExtractLen {
		return ""
	}
	r, size := utf8.DecodeRuneInString(text)
	text = string(unicode.ToUpper(r)) + text[size:]
	if runes := []rune(text); len(runes) > maxExtractLen {
		text = strings.TrimRight(string(runes[:maxExtractLen]), " ") + "..."
	}
	return text
}

func articleTitle(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	name = string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
	return strings.ReplaceAll(name, " ", "_")
}
