package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

type DoctorReport struct {
	Rows           int `json:"rows"`
	InvalidRecords int `json:"invalid_records"`
	BadTimestamps  int `json:"bad_timestamps"`
	ExpiredRows    int `json:"expired_rows"`
	RemovedRows    int `json:"removed_rows,omitempty"`
}

// Healthy reports whether the cache has no rows that would be ignored on read.
// Expired rows are normal and do not count.
func (r DoctorReport) Healthy() bool {
	return r.InvalidRecords == 0 && r.BadTimestamps == 0
}

type cacheRowKey struct {
	provider string
	barcode  string
}

// RunDoctor checks product_cache rows for undecodable records, records
// without a name and unparseable timestamps. With fix, those rows are deleted.
func RunDoctor(db *sql.DB, fix bool, now time.Time) (DoctorReport, error) {
	report := DoctorReport{}
	rows, err := db.Query(`SELECT provider, barcode, record_json, fetched_at, expires_at FROM product_cache`)
	if err != nil {
		return report, fmt.Errorf("doctor cache query: %w", err)
	}
	bad := make([]cacheRowKey, 0)
	for rows.Next() {
		var key cacheRowKey
		var record, fetched, expires string
		if err := rows.Scan(&key.provider, &key.barcode, &record, &fetched, &expires); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor cache scan: %w", err)
		}
		report.Rows++

		var p model.RawProduct
		if err := json.Unmarshal([]byte(record), &p); err != nil || strings.TrimSpace(p.Name) == "" {
			report.InvalidRecords++
			bad = append(bad, key)
			continue
		}
		_, fetchErr := time.Parse(time.RFC3339, fetched)
		expiresAt, expiresErr := time.Parse(time.RFC3339, expires)
		if fetchErr != nil || expiresErr != nil {
			report.BadTimestamps++
			bad = append(bad, key)
			continue
		}
		if now.After(expiresAt) {
			report.ExpiredRows++
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor cache iterate: %w", err)
	}
	_ = rows.Close()

	if fix && len(bad) > 0 {
		tx, err := db.Begin()
		if err != nil {
			return report, fmt.Errorf("doctor fix begin tx: %w", err)
		}
		for _, key := range bad {
			if _, err := tx.Exec(`DELETE FROM product_cache WHERE provider = ? AND barcode = ?`, key.provider, key.barcode); err != nil {
				_ = tx.Rollback()
				return report, fmt.Errorf("doctor fix row %s/%s: %w", key.provider, key.barcode, err)
			}
			report.RemovedRows++
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("doctor fix commit: %w", err)
		}
	}
	return report, nil
}
