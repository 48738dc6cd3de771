package sim

import "math"

// DemandAt is the instantaneous demand for an album t weeks after
// release: base * e^(-decay*t) + pulse, floored at zero. Negative decay
// and negative t are clamped so pre-release demand behaves as at the
// release week.
func DemandAt(base, decay float64, t int, marketingPulse float64) float64 {
	if decay < 0 {
		decay = 0
	}
	weeks := float64(t)
	if weeks < 0 {
		weeks = 0
	}
	return math.Max(0, base*math.Exp(-decay*weeks)+marketingPulse)
}

// SalesContext carries the optional collaborators ComputeWeeklySales
// consults. The zero value means no marketing bonus and unit price 1.
type SalesContext struct {
	MarketingPulse MarketingFunc
}

// ComputeWeeklySales runs one week of sales for an album and returns the
// total units sold. Physical units are capped by remaining stock; an
// album with no stock field sells zero physical units and the whole
// demand lands digital. That quirk mirrors the original game and is
// load-bearing for its balance, so it stays.
func ComputeWeeklySales(album *Album, week int, ctx SalesContext) float64 {
	t := week - album.ReleaseWeek
	pulse := 0.0
	if ctx.MarketingPulse != nil {
		pulse = ctx.MarketingPulse(album, week)
	}
	demand := DemandAt(album.DemandBase, album.Decay, t, pulse)

	physical := 0.0
	if album.Stock != nil {
		physical = math.Min(demand, *album.Stock)
		if physical < 0 {
			physical = 0
		}
		*album.Stock -= physical
	}
	digital := math.Max(0, demand-physical)
	total := physical + digital

	album.Stats.Sales += total
	album.Stats.LastWeekSales = total
	return total
}

// CheckCertifications appends "region:tier" entries for every threshold
// the album's cumulative sales now meet, in table order, skipping
// anything already recorded. Returns the newly earned certifications.
func CheckCertifications(album *Album, regions []CertRegion) []Certification {
	var earned []Certification
	for _, region := range regions {
		for _, tier := range region.Tiers {
			if album.Stats.Sales < tier.Threshold {
				continue
			}
			key := region.Region + ":" + tier.Name
			if hasCertification(album, key) {
				continue
			}
			album.Certifications = append(album.Certifications, key)
			earned = append(earned, Certification{
				Region: region.Region,
				Name:   tier.Name,
				Sales:  album.Stats.Sales,
			})
		}
	}
	return earned
}

func hasCertification(album *Album, key string) bool {
	for _, c := range album.Certifications {
		if c == key {
			return true
		}
	}
	return false
}

// AlbumsTick runs weekly sales and certification checks for every album.
func AlbumsTick(state *GameState) {
	ctx := SalesContext{MarketingPulse: state.Marketing}
	for _, album := range state.Albums {
		if album == nil {
			continue
		}
		ComputeWeeklySales(album, state.Week, ctx)
		CheckCertifications(album, state.Config.Certifications)
	}
}
