package sim

import (
	mathrand "math/rand"
	"strings"
	"testing"
)

func TestProduceTrackDeterministicWithSeed(t *testing.T) {
	m := Musician{Name: "nova", Talent: 80, Creativity: 60}

	a := ProduceTrack(m, 3, mathrand.New(mathrand.NewSource(42)))
	b := ProduceTrack(m, 3, mathrand.New(mathrand.NewSource(42)))

	if a.Quality != b.Quality {
		t.Fatalf("same seed must give same quality: %f vs %f", a.Quality, b.Quality)
	}
	if a.ID == b.ID {
		t.Fatal("track ids must be unique")
	}
	if !strings.HasPrefix(a.ID, "trk_") {
		t.Fatalf("track id prefix: %s", a.ID)
	}
	if a.Genre != "pop" {
		t.Fatalf("default genre: %s", a.Genre)
	}
}

func TestProduceTrackQualityBounds(t *testing.T) {
	m := Musician{Talent: 100, Creativity: 100}
	rng := mathrand.New(mathrand.NewSource(7))
	for i := 0; i < 200; i++ {
		track := ProduceTrack(m, 5, rng)
		// deterministic part: (100*0.6+100*0.4)*0.1 + 5*2 = 20,
		// plus a [0,10) roll.
		if track.Quality < 20 || track.Quality > 30 {
			t.Fatalf("quality out of range: %f", track.Quality)
		}
	}
}
