package sim

import (
	"strings"
	"testing"
)

func TestTrendingScore(t *testing.T) {
	if got := TrendingScore(0, 0); !almostEqual(got, 0.5) {
		t.Fatalf("baseline trending: got %f want 0.5", got)
	}
	if got := TrendingScore(0.1, 3); !almostEqual(got, 2.05) {
		t.Fatalf("trending: got %f want 2.05", got)
	}
}

func TestUploadVideoEstimatesViews(t *testing.T) {
	state := &GameState{Week: 2, Fans: 1000, Reputation: 10}

	video := UploadVideo(state, "studio vlog", 2)

	// ctr = 0.03 + 2*0.015 = 0.06, audience = 1000 + 10*100 = 2000,
	// watchTime = 1.2, trending = 0.5 + 0.03 + 0.6 = 1.13,
	// views = round(2000 * 0.06 * 2.13) = 256, likes = round(256*0.08) = 20.
	if video.Views != 256 {
		t.Fatalf("views: got %d want 256", video.Views)
	}
	if video.Likes != 20 {
		t.Fatalf("likes: got %d want 20", video.Likes)
	}
	if !almostEqual(video.Trending, 1.13) {
		t.Fatalf("trending: got %f", video.Trending)
	}
	if !strings.HasPrefix(video.ID, "yt_") {
		t.Fatalf("video id prefix: %s", video.ID)
	}
	if len(state.YouTube) != 1 {
		t.Fatal("video not recorded on state")
	}
}
