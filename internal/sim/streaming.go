package sim

import "math"

// streamWindowWeeks is how long after release a track keeps collecting
// weekly streams.
const streamWindowWeeks = 12

// DefaultPlatforms returns the fixed launch catalog of streaming
// platforms. The table is game balance, not configuration; keep it as is.
func DefaultPlatforms() []*Platform {
	return []*Platform{
		{ID: "streamify", Name: "Streamify", Weight: 0.38, CTR: 0.050},
		{ID: "peach", Name: "Peach Music", Weight: 0.22, CTR: 0.042},
		{ID: "megazon", Name: "Megazon Music", Weight: 0.12, CTR: 0.035},
		{ID: "youmusic", Name: "YouMusic", Weight: 0.10, CTR: 0.048},
		{ID: "pandora", Name: "Pandora", Weight: 0.08, CTR: 0.030},
		{ID: "kazaam", Name: "Kazaam", Weight: 0.06, CTR: 0.028},
		{ID: "musiccloud", Name: "MusicCloud", Weight: 0.04, CTR: 0.025},
	}
}

// DistributeWeeklyStreams updates every platform's weekly snapshot and
// cumulative total, then splits the week's views evenly across tracks
// released inside the stream window. The split is intentionally crude:
// integer share per track, remainder dropped, minimum one stream each.
// Platform totals still accumulate the full view count.
func DistributeWeeklyStreams(state *GameState) {
	audience := float64(state.Fans)*10 + state.Reputation*1000

	recent := recentTracks(state)
	for _, p := range state.Platforms {
		if p == nil {
			continue
		}
		reach := audience * p.Weight * (1 + p.Trending)
		views := int64(math.Round(reach * p.CTR))
		p.Weekly = WeeklySnapshot{Week: state.Week, Streams: views}
		p.Total += views

		if len(recent) == 0 || views <= 0 {
			continue
		}
		share := views / int64(len(recent))
		if share < 1 {
			share = 1
		}
		for _, t := range recent {
			t.Stats.Streams += share
		}
	}
}

func recentTracks(state *GameState) []*Track {
	var out []*Track
	for _, album := range state.Albums {
		if album == nil {
			continue
		}
		for _, t := range album.Tracks {
			if t == nil {
				continue
			}
			if state.Week-t.ReleaseWeek <= streamWindowWeeks {
				out = append(out, t)
			}
		}
	}
	return out
}
