package sim

import (
	"math"

	"github.com/google/uuid"
)

// TrendingScore estimates engagement for a video. Novelty is a fixed
// 0.5 rather than a function of recency; that simplification is part of
// the balance, not a gap to fill.
func TrendingScore(ctr, watchTime float64) float64 {
	return math.Max(0, 0.5+0.5*ctr+0.5*watchTime)
}

// UploadVideo publishes a video and estimates its views and likes from
// the current audience.
func UploadVideo(state *GameState, topic string, productionQuality float64) *Video {
	ctr := 0.03 + productionQuality*0.015
	audience := float64(state.Fans) + state.Reputation*100
	watchTime := math.Max(0, productionQuality*0.6)
	trending := TrendingScore(ctr, watchTime)
	views := int(math.Round(audience * ctr * (1 + trending)))

	video := &Video{
		ID:                "yt_" + uuid.NewString(),
		Topic:             topic,
		ProductionQuality: productionQuality,
		Week:              state.Week,
		Trending:          trending,
		Views:             views,
		Likes:             int(math.Round(float64(views) * 0.08)),
	}
	state.YouTube = append(state.YouTube, video)
	return video
}

// YouTubeTick is deliberately a no-op: view counts are estimated once at
// upload and do not decay.
func YouTubeTick(state *GameState) {}
