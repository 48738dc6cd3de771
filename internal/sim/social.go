package sim

import (
	"math"

	"github.com/google/uuid"
)

// PostSocial publishes a post, records its audience impact and converts
// a slice of that impact into new fans. Freshness is fixed at 1.0: posts
// never decay or cool down in this model.
func PostSocial(state *GameState, platform, topic string, quality float64) *SocialPost {
	ctr := clamp(0.02+quality*0.01, 0, 1)
	const freshness = 1.0
	impact := int(math.Round(float64(state.Fans) * ctr * freshness))

	post := &SocialPost{
		ID:       "sp_" + uuid.NewString(),
		Platform: platform,
		Topic:    topic,
		Quality:  quality,
		Week:     state.Week,
		Impact:   impact,
	}
	state.Social = append(state.Social, post)
	state.Fans += int(math.Round(float64(impact) * 0.1))
	return post
}

// SocialTick is deliberately a no-op: post impact does not decay. Keep
// it a no-op unless decay becomes an explicit game feature.
func SocialTick(state *GameState) {}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
