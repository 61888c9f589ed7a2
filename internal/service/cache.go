package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/logger"
	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const DefaultCacheTTL = 7 * 24 * time.Hour

// CacheRecorder counts cache hits and misses. *metrics.Metrics implements it.
type CacheRecorder interface {
	CacheLookup(source string, hit bool)
}

type CacheOptions struct {
	TTL     time.Duration
	Logger  logger.Logger
	Metrics CacheRecorder
	Now     func() time.Time
}

// CachedSource serves normalized records from the product_cache table and
// falls through to the wrapped source on a miss or an expired row. Only found
// records are cached.
type CachedSource struct {
	inner   Source
	key     string
	db      *sql.DB
	ttl     time.Duration
	log     logger.Logger
	metrics CacheRecorder
	now     func() time.Time
}

func NewCachedSource(inner Source, db *sql.DB, opts CacheOptions) *CachedSource {
	c := &CachedSource{
		inner:   inner,
		key:     sourceKey(inner),
		db:      db,
		ttl:     opts.TTL,
		log:     opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultCacheTTL
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *CachedSource) Name() string     { return c.inner.Name() }
func (c *CachedSource) Tier() model.Tier { return c.inner.Tier() }

func (c *CachedSource) FetchProduct(ctx context.Context, barcode string) (*model.RawProduct, error) {
	barcode = strings.TrimSpace(barcode)
	cached, found, err := lookupProductCache(c.db, c.key, barcode, c.now())
	if err != nil {
		c.log.Warn("product cache lookup failed", logger.String("source", c.key), logger.Error(err))
	}
	c.recordLookup(found)
	if found {
		return cached, nil
	}

	product, err := c.inner.FetchProduct(ctx, barcode)
	if err != nil || product == nil {
		return product, err
	}
	now := c.now()
	if err := upsertProductCache(c.db, c.key, barcode, product, now, now.Add(c.ttl)); err != nil {
		c.log.Warn("product cache write failed", logger.String("source", c.key), logger.Error(err))
	}
	return product, nil
}

func (c *CachedSource) recordLookup(hit bool) {
	if c.metrics != nil {
		c.metrics.CacheLookup(c.key, hit)
	}
}

// sourceKey prefers the provider id so cache rows survive display-name
// changes.
func sourceKey(src Source) string {
	if withID, ok := src.(interface{ ID() string }); ok {
		return withID.ID()
	}
	return src.Name()
}

type ProductCacheItem struct {
	Provider  string    `json:"provider"`
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Quality   int       `json:"quality_score"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func lookupProductCache(db *sql.DB, provider, barcode string, now time.Time) (*model.RawProduct, bool, error) {
	var recordRaw, expiresAtRaw string
	err := db.QueryRow(`
SELECT record_json, expires_at
FROM product_cache
WHERE provider = ? AND barcode = ?
`, provider, barcode).Scan(&recordRaw, &expiresAtRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup product cache: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339, expiresAtRaw)
	if err != nil {
		return nil, false, fmt.Errorf("parse product cache expiry: %w", err)
	}
	if now.After(expiresAt) {
		return nil, false, nil
	}
	var product model.RawProduct
	if err := json.Unmarshal([]byte(recordRaw), &product); err != nil {
		return nil, false, fmt.Errorf("decode product cache record: %w", err)
	}
	return &product, true, nil
}

func upsertProductCache(db *sql.DB, provider, barcode string, p *model.RawProduct, fetchedAt, expiresAt time.Time) error {
	record, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product cache record: %w", err)
	}
	_, err = db.Exec(`
INSERT INTO product_cache(provider, barcode, name, brand, quality_score, record_json, fetched_at, expires_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, barcode) DO UPDATE SET
  name=excluded.name,
  brand=excluded.brand,
  quality_score=excluded.quality_score,
  record_json=excluded.record_json,
  fetched_at=excluded.fetched_at,
  expires_at=excluded.expires_at
`, provider, barcode, p.Name, p.Brand, p.QualityScore, string(record), fetchedAt.UTC().Format(time.RFC3339), expiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert product cache: %w", err)
	}
	return nil
}

func ListProductCache(db *sql.DB, provider string, limit int) ([]ProductCacheItem, error) {
	provider = NormalizeProvider(provider)
	if limit <= 0 {
		limit = 100
	}
	base := `SELECT provider, barcode, name, brand, quality_score, fetched_at, expires_at FROM product_cache`
	args := make([]any, 0, 2)
	if provider != "" {
		base += ` WHERE provider = ?`
		args = append(args, provider)
	}
	base += ` ORDER BY fetched_at DESC, barcode LIMIT ?`
	args = append(args, limit)
	rows, err := db.Query(base, args...)
	if err != nil {
		return nil, fmt.Errorf("list product cache: %w", err)
	}
	defer rows.Close()
	out := make([]ProductCacheItem, 0)
	for rows.Next() {
		var item ProductCacheItem
		var fetched, expires string
		if err := rows.Scan(&item.Provider, &item.Barcode, &item.Name, &item.Brand, &item.Quality, &fetched, &expires); err != nil {
			return nil, fmt.Errorf("scan product cache: %w", err)
		}
		item.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
		item.ExpiresAt, _ = time.Parse(time.RFC3339, expires)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product cache: %w", err)
	}
	return out, nil
}

type PurgeOptions struct {
	Provider string
	Barcode  string
	All      bool
	// Expired removes rows whose expiry is before Now.
	Expired bool
	Now     time.Time
}

func PurgeProductCache(db *sql.DB, opts PurgeOptions) (int64, error) {
	provider := NormalizeProvider(opts.Provider)
	barcode := strings.TrimSpace(opts.Barcode)

	var (
		res sql.Result
		err error
	)
	switch {
	case opts.All:
		res, err = db.Exec(`DELETE FROM product_cache`)
	case opts.Expired:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		res, err = db.Exec(`DELETE FROM product_cache WHERE expires_at < ?`, now.UTC().Format(time.RFC3339))
	case provider != "" && barcode != "":
		res, err = db.Exec(`DELETE FROM product_cache WHERE provider = ? AND barcode = ?`, provider, barcode)
	case provider != "":
		res, err = db.Exec(`DELETE FROM product_cache WHERE provider = ?`, provider)
	case barcode != "":
		res, err = db.Exec(`DELETE FROM product_cache WHERE barcode = ?`, barcode)
	default:
		return 0, fmt.Errorf("specify --all, --expired, --provider, --barcode, or provider+barcode")
	}
	if err != nil {
		return 0, fmt.Errorf("purge product cache: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge product cache rows affected: %w", err)
	}
	return affected, nil
}
