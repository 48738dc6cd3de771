package sim

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestDemandAt(t *testing.T) {
	if got := DemandAt(100, 0.2, 0, 0); !almostEqual(got, 100) {
		t.Fatalf("demand at release week: got %f want 100", got)
	}

	prev := DemandAt(100, 0.2, 0, 0)
	for week := 1; week <= 20; week++ {
		cur := DemandAt(100, 0.2, week, 0)
		if cur >= prev {
			t.Fatalf("demand not strictly decreasing at week %d: %f >= %f", week, cur, prev)
		}
		prev = cur
	}

	if got := DemandAt(100, 0.2, -3, 0); !almostEqual(got, 100) {
		t.Fatalf("pre-release demand should clamp to release week: got %f", got)
	}
	if got := DemandAt(5, -1, 4, -100); got < 0 {
		t.Fatalf("demand must never be negative, got %f", got)
	}
}

func TestComputeWeeklySalesStockSplit(t *testing.T) {
	stock := 50.0
	album := &Album{DemandBase: 100, Decay: 0.2, ReleaseWeek: 0, Stock: &stock}

	total := ComputeWeeklySales(album, 1, SalesContext{})
	wantDemand := 100 * math.Exp(-0.2)
	if !almostEqual(total, wantDemand) {
		t.Fatalf("total sold: got %f want %f", total, wantDemand)
	}
	if *album.Stock != 0 {
		t.Fatalf("stock after selling out: got %f want 0", *album.Stock)
	}
	if !almostEqual(album.Stats.LastWeekSales, wantDemand) {
		t.Fatalf("last week sales: got %f want %f", album.Stats.LastWeekSales, wantDemand)
	}
}

func TestComputeWeeklySalesNoStockIsAllDigital(t *testing.T) {
	album := &Album{DemandBase: 40, Decay: 0.2, ReleaseWeek: 0}
	total := ComputeWeeklySales(album, 0, SalesContext{})
	if !almostEqual(total, 40) {
		t.Fatalf("albums without stock still sell digital: got %f want 40", total)
	}
}

func TestComputeWeeklySalesAccumulates(t *testing.T) {
	album := &Album{DemandBase: 80, Decay: 0.3, ReleaseWeek: 2}
	sum := 0.0
	for week := 2; week < 10; week++ {
		sum += ComputeWeeklySales(album, week, SalesContext{})
	}
	if !almostEqual(album.Stats.Sales, sum) {
		t.Fatalf("cumulative sales %f != sum of weekly returns %f", album.Stats.Sales, sum)
	}
}

func TestComputeWeeklySalesMarketingPulse(t *testing.T) {
	album := &Album{DemandBase: 10, Decay: 0, ReleaseWeek: 0}
	ctx := SalesContext{MarketingPulse: func(a *Album, week int) float64 { return 15 }}
	if got := ComputeWeeklySales(album, 0, ctx); !almostEqual(got, 25) {
		t.Fatalf("marketing pulse should add to demand: got %f want 25", got)
	}
}

func TestCheckCertificationsIdempotent(t *testing.T) {
	regions := []CertRegion{
		{Region: "us", Tiers: []CertTier{{Name: "gold", Threshold: 100}, {Name: "platinum", Threshold: 500}}},
		{Region: "uk", Tiers: []CertTier{{Name: "silver", Threshold: 60}}},
	}
	album := &Album{Stats: AlbumStats{Sales: 120}}

	earned := CheckCertifications(album, regions)
	if len(earned) != 2 {
		t.Fatalf("expected 2 certifications, got %d", len(earned))
	}
	want := []string{"us:gold", "uk:silver"}
	for i, key := range want {
		if album.Certifications[i] != key {
			t.Fatalf("certification order: got %v want %v", album.Certifications, want)
		}
	}

	if again := CheckCertifications(album, regions); len(again) != 0 {
		t.Fatalf("second check with unchanged sales must earn nothing, got %v", again)
	}
	if len(album.Certifications) != 2 {
		t.Fatalf("certifications duplicated: %v", album.Certifications)
	}

	album.Stats.Sales = 600
	more := CheckCertifications(album, regions)
	if len(more) != 1 || more[0].Name != "platinum" {
		t.Fatalf("expected platinum unlock, got %v", more)
	}
}
