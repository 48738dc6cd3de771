package sim

import "testing"

func TestComputeRankStableSort(t *testing.T) {
	a := &Album{ID: "a", Stats: AlbumStats{LastWeekSales: 50}}
	b := &Album{ID: "b", Stats: AlbumStats{LastWeekSales: 50}}
	c := &Album{ID: "c", Stats: AlbumStats{LastWeekSales: 90}}

	ranked := ComputeRank([]*Album{a, b, c}, WeeklySalesMetric, 0)

	if ranked[0] != c || ranked[1] != a || ranked[2] != b {
		t.Fatalf("expected [c a b], got [%s %s %s]", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	if c.ChartRank != 1 || a.ChartRank != 2 || b.ChartRank != 3 {
		t.Fatalf("ranks: c=%d a=%d b=%d", c.ChartRank, a.ChartRank, b.ChartRank)
	}
}

func TestComputeRankPeakOnlyImproves(t *testing.T) {
	a := &Album{ID: "a", Stats: AlbumStats{LastWeekSales: 90}}
	b := &Album{ID: "b", Stats: AlbumStats{LastWeekSales: 10}}

	ComputeRank([]*Album{a, b}, WeeklySalesMetric, 0)
	if a.ChartPeak != 1 || b.ChartPeak != 2 {
		t.Fatalf("initial peaks: a=%d b=%d", a.ChartPeak, b.ChartPeak)
	}

	// a falls to rank 2; its peak must stay at 1.
	a.Stats.LastWeekSales = 5
	b.Stats.LastWeekSales = 100
	ComputeRank([]*Album{a, b}, WeeklySalesMetric, 0)
	if a.ChartRank != 2 {
		t.Fatalf("a should have fallen to rank 2, got %d", a.ChartRank)
	}
	if a.ChartPeak != 1 {
		t.Fatalf("peak must never worsen: got %d want 1", a.ChartPeak)
	}
	if b.ChartPeak != 1 {
		t.Fatalf("b's new peak: got %d want 1", b.ChartPeak)
	}
}

func TestComputeRankDoesNotReorderInput(t *testing.T) {
	a := &Album{ID: "a", Stats: AlbumStats{LastWeekSales: 1}}
	b := &Album{ID: "b", Stats: AlbumStats{LastWeekSales: 2}}
	in := []*Album{a, b}
	ComputeRank(in, WeeklySalesMetric, 0)
	if in[0] != a || in[1] != b {
		t.Fatal("input slice was reordered")
	}
}
