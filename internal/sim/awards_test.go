package sim

import "testing"

func TestAwardScore(t *testing.T) {
	album := &Album{Stats: AlbumStats{Sales: 50000}}
	if got := AwardScore(album); !almostEqual(got, 5.0) {
		t.Fatalf("sales-only score: got %f want 5", got)
	}

	album.ChartPeak = 1
	if got := AwardScore(album); !almostEqual(got, 54.5) {
		t.Fatalf("charted score: got %f want 54.5", got)
	}
}

func TestMaybeGiveAwards(t *testing.T) {
	state := &GameState{
		Week: 10,
		Albums: []*Album{
			{ID: "hit", ChartPeak: 1, Stats: AlbumStats{Sales: 50000, LastWeekSales: 100}},
			{ID: "stale", ChartPeak: 1, Stats: AlbumStats{Sales: 50000, LastWeekSales: 0}},
			{ID: "flop", Stats: AlbumStats{Sales: 100, LastWeekSales: 5}},
		},
	}

	MaybeGiveAwards(state)

	if len(state.Events) != 1 {
		t.Fatalf("events: got %d want 1", len(state.Events))
	}
	ev := state.Events[0]
	if ev.Type != EventAward || ev.Note != "hit" || ev.Week != 10 {
		t.Fatalf("award event: %+v", ev)
	}
	// albums with no sales this week never win, however strong the score
	if !almostEqual(ev.Amount, 54.5) {
		t.Fatalf("score: got %f", ev.Amount)
	}
}
