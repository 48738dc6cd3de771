package sim

import (
	"math"
	mathrand "math/rand"

	"github.com/google/uuid"
)

// ProduceTrack rolls a new track's quality from the musician's
// attributes, the studio level and a uniform [0,10) draw. The rng is
// injected so callers own seeding and tests are reproducible.
func ProduceTrack(musician Musician, studioLevel float64, rng *mathrand.Rand) *Track {
	quality := math.Round((musician.Talent*0.6+musician.Creativity*0.4)*0.1 +
		studioLevel*2 +
		rng.Float64()*10)
	return &Track{
		ID:      "trk_" + uuid.NewString(),
		Quality: quality,
		Genre:   "pop",
	}
}
