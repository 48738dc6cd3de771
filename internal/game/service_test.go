package game

import (
	"testing"

	"risingstar/internal/config"
	"risingstar/internal/sim"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(nil, nil, config.DefaultBalance())
}

func TestWeeklyPassReport(t *testing.T) {
	s := testService(t)

	state := sim.GameState{
		Week: 4,
		Cash: 100,
		Fans: 1000,
		Albums: []*sim.Album{
			{
				ID:         "alb_1",
				Title:      "First Light",
				DemandBase: 200,
				Tracks:     []*sim.Track{{ID: "trk_1", ReleaseWeek: 4}},
			},
		},
	}
	if err := sim.Normalize(&state); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	next, report, err := s.weeklyPass(&state)
	if err != nil {
		t.Fatalf("weekly pass: %v", err)
	}

	if next.Week != 5 || report.Week != 5 {
		t.Fatalf("week: state %d report %d, want 5", next.Week, report.Week)
	}
	if report.TotalSales <= 0 {
		t.Fatalf("total sales: got %f", report.TotalSales)
	}
	if report.Streams <= 0 {
		t.Fatal("streams should accumulate for a fresh release")
	}
	if len(report.ChartTop) != 1 || report.ChartTop[0].Rank != 1 {
		t.Fatalf("chart top: %+v", report.ChartTop)
	}
	// royalties on digital sales land as cash
	if report.CashDelta <= 0 {
		t.Fatalf("cash delta: got %f", report.CashDelta)
	}
	if state.Week != 4 {
		t.Fatalf("input snapshot mutated: week %d", state.Week)
	}
}

func TestWeeklyPassNilState(t *testing.T) {
	s := testService(t)
	if _, _, err := s.weeklyPass(nil); err == nil {
		t.Fatal("expected error for nil state")
	}
}

func TestNewStarterSave(t *testing.T) {
	s := testService(t)
	doc := s.newStarterSave("nova")

	if doc.State.Cash != StarterCash || doc.State.Fans != StarterFans {
		t.Fatalf("starter economy: cash %f fans %d", doc.State.Cash, doc.State.Fans)
	}
	if doc.StudioLevel != 1 {
		t.Fatalf("studio level: got %d", doc.StudioLevel)
	}
	if doc.Artist.Talent < 40 || doc.Artist.Talent >= 80 {
		t.Fatalf("talent roll out of range: %f", doc.Artist.Talent)
	}
	if len(doc.State.Platforms) != 7 {
		t.Fatalf("default platforms: got %d", len(doc.State.Platforms))
	}
	if len(doc.State.Config.Certifications) == 0 {
		t.Fatal("certification table missing")
	}
}
