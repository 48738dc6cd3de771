package sim

import "testing"

func TestDistributeWeeklyStreamsEvenSplit(t *testing.T) {
	// fans*10 = 10_000 audience; weight 0.1 and ctr 0.1 give exactly
	// 100 views for the week.
	state := &GameState{
		Week: 3,
		Fans: 1000,
		Platforms: []*Platform{
			{ID: "streamify", Weight: 0.1, CTR: 0.1},
		},
		Albums: []*Album{
			{Tracks: []*Track{
				{ID: "t1", ReleaseWeek: 0},
				{ID: "t2", ReleaseWeek: 1},
				{ID: "t3", ReleaseWeek: 3},
			}},
		},
	}

	DistributeWeeklyStreams(state)

	p := state.Platforms[0]
	if p.Weekly.Streams != 100 || p.Weekly.Week != 3 {
		t.Fatalf("weekly snapshot: got %+v", p.Weekly)
	}
	if p.Total != 100 {
		t.Fatalf("platform total: got %d want 100", p.Total)
	}
	for _, tr := range state.Albums[0].Tracks {
		if tr.Stats.Streams != 33 {
			t.Fatalf("track %s streams: got %d want 33", tr.ID, tr.Stats.Streams)
		}
	}
}

func TestDistributeWeeklyStreamsNoEligibleTracks(t *testing.T) {
	state := &GameState{
		Week: 20,
		Fans: 1000,
		Platforms: []*Platform{
			{ID: "streamify", Weight: 0.1, CTR: 0.1},
		},
		Albums: []*Album{
			{Tracks: []*Track{{ID: "old", ReleaseWeek: 0}}},
		},
	}

	DistributeWeeklyStreams(state)

	if got := state.Platforms[0].Total; got != 100 {
		t.Fatalf("views still accumulate without eligible tracks: got %d", got)
	}
	if got := state.Albums[0].Tracks[0].Stats.Streams; got != 0 {
		t.Fatalf("stale track must not receive streams: got %d", got)
	}
}

func TestDistributeWeeklyStreamsMinimumShare(t *testing.T) {
	state := &GameState{
		Week: 0,
		Fans: 2, // 20 audience, 0.1*0.1 -> 0 views rounded
		Platforms: []*Platform{
			{ID: "p", Weight: 0.5, CTR: 0.2}, // round(20*0.5*0.2) = 2 views
		},
		Albums: []*Album{
			{Tracks: []*Track{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
		},
	}

	DistributeWeeklyStreams(state)

	// 2 views over 3 tracks floors to 0, bumped to the minimum of 1.
	for _, tr := range state.Albums[0].Tracks {
		if tr.Stats.Streams != 1 {
			t.Fatalf("minimum per-track share: got %d want 1", tr.Stats.Streams)
		}
	}
}

func TestDefaultPlatformsCatalog(t *testing.T) {
	platforms := DefaultPlatforms()
	wantIDs := []string{"streamify", "peach", "megazon", "youmusic", "pandora", "kazaam", "musiccloud"}
	if len(platforms) != len(wantIDs) {
		t.Fatalf("platform count: got %d want %d", len(platforms), len(wantIDs))
	}
	totalWeight := 0.0
	for i, p := range platforms {
		if p.ID != wantIDs[i] {
			t.Fatalf("platform %d: got %s want %s", i, p.ID, wantIDs[i])
		}
		totalWeight += p.Weight
	}
	if !almostEqual(totalWeight, 1.0) {
		t.Fatalf("platform weights should sum to 1, got %f", totalWeight)
	}
}
