package sim

import (
	"strings"
	"testing"
)

func TestPostSocialImpactAndFanGain(t *testing.T) {
	state := &GameState{Week: 3, Fans: 1000}

	post := PostSocial(state, "chirper", "tour announcement", 5)

	// ctr = 0.02 + 5*0.01 = 0.07, impact = round(1000*0.07) = 70,
	// fan gain = round(70*0.1) = 7.
	if post.Impact != 70 {
		t.Fatalf("impact: got %d want 70", post.Impact)
	}
	if state.Fans != 1007 {
		t.Fatalf("fans: got %d want 1007", state.Fans)
	}
	if post.Week != 3 || post.Platform != "chirper" {
		t.Fatalf("post metadata: %+v", post)
	}
	if !strings.HasPrefix(post.ID, "sp_") {
		t.Fatalf("post id prefix: %s", post.ID)
	}
	if len(state.Social) != 1 || state.Social[0] != post {
		t.Fatal("post not recorded on state")
	}
}

func TestPostSocialCTRClamped(t *testing.T) {
	state := &GameState{Fans: 100}

	post := PostSocial(state, "chirper", "viral", 1000)

	// ctr clamps to 1: impact can never exceed the fan base.
	if post.Impact != 100 {
		t.Fatalf("impact: got %d want 100", post.Impact)
	}
}
