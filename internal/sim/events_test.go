package sim

import "testing"

func intPtr(v int) *int { return &v }

func TestProcessEventsExpiry(t *testing.T) {
	state := &GameState{
		Week: 3,
		Events: []*Event{
			{Type: "old", Week: 1, ExpiresWeek: intPtr(2)},
			{Type: "edge", Week: 1, ExpiresWeek: intPtr(3)},
			{Type: "keep", Week: 1},
		},
	}

	ProcessEvents(state)

	if len(state.Events) != 2 {
		t.Fatalf("expected 2 surviving events, got %d", len(state.Events))
	}
	if state.Events[0].Type != "edge" || state.Events[1].Type != "keep" {
		t.Fatalf("wrong survivors: %s, %s", state.Events[0].Type, state.Events[1].Type)
	}
}

func TestProcessEventsFiresCurrentWeekOnce(t *testing.T) {
	fired := 0
	state := &GameState{
		Week: 3,
		Events: []*Event{
			{Type: "boost", Week: 3, Apply: func(s *GameState) {
				fired++
				s.Fans += 100
			}},
			{Type: "later", Week: 5, Apply: func(s *GameState) { t.Fatal("future event fired") }},
		},
	}

	ProcessEvents(state)

	if fired != 1 {
		t.Fatalf("apply fired %d times, want 1", fired)
	}
	if state.Fans != 100 {
		t.Fatalf("effect not applied: fans %d", state.Fans)
	}
	if len(state.Events) != 2 {
		t.Fatalf("fired event must remain queued, got %d events", len(state.Events))
	}
}

func TestProcessEventsLeavesSnapshotIntact(t *testing.T) {
	state := &GameState{
		Week:   5,
		Events: []*Event{{Type: "gone", Week: 2, ExpiresWeek: intPtr(2)}},
	}
	before := state.Events

	ProcessEvents(state)

	if len(state.Events) != 0 {
		t.Fatalf("expired event kept: %d", len(state.Events))
	}
	if len(before) != 1 || before[0].Type != "gone" {
		t.Fatal("filtering must not rewrite the prior slice")
	}
}
