package service

import (
	"strings"
	"time"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const dateLayout = "2006-01-02"

// Country tags are matched after stripping the "en:" prefix, so both ISO
// codes and Open Food Facts country names are listed.
var euCountries = map[string]struct{}{
	"fr": {}, "france": {},
	"de": {}, "germany": {},
	"it": {}, "italy": {},
	"es": {}, "spain": {},
	"nl": {}, "netherlands": {},
	"be": {}, "belgium": {},
	"pt": {}, "portugal": {},
	"pl": {}, "poland": {},
	"se": {}, "sweden": {},
	"dk": {}, "denmark": {},
	"fi": {}, "finland": {},
	"ie": {}, "ireland": {},
	"at": {}, "austria": {},
	"gr": {}, "greece": {},
	"cz": {}, "czech-republic": {}, "czechia": {},
}

var usCountries = map[string]struct{}{
	"us": {}, "usa": {}, "united-states": {}, "united-states-of-america": {},
}

// MarketAvailability groups country tags into EU and US markets, falling back
// to Global when neither matches.
func MarketAvailability(countries []string, now time.Time) model.MarketData {
	var eu, us bool
	for _, c := range countries {
		tag := strings.ToLower(strings.TrimSpace(c))
		if len(tag) > 3 && tag[2] == ':' {
			tag = tag[3:]
		}
		tag = strings.ReplaceAll(tag, " ", "-")
		if _, ok := euCountries[tag]; ok {
			eu = true
		}
		if _, ok := usCountries[tag]; ok {
			us = true
		}
	}
	available := make([]string, 0, 2)
	if eu {
		available = append(available, "EU")
	}
	if us {
		available = append(available, "US")
	}
	if len(available) == 0 {
		available = append(available, "Global")
	}
	return model.MarketData{AvailableIn: available, LastVerified: now.UTC().Format(dateLayout)}
}
