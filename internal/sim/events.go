package sim

// ProcessEvents drops events whose expiry week has passed, then fires
// the deferred effect of every remaining event scheduled for the current
// week. Fired events stay queued; only expiry removes them, unless the
// effect itself rewrites ExpiresWeek.
func ProcessEvents(state *GameState) {
	kept := make([]*Event, 0, len(state.Events))
	for _, ev := range state.Events {
		if ev == nil {
			continue
		}
		if ev.ExpiresWeek != nil && *ev.ExpiresWeek < state.Week {
			continue
		}
		kept = append(kept, ev)
	}
	state.Events = kept

	for _, ev := range state.Events {
		if ev.Week == state.Week && ev.Apply != nil {
			ev.Apply(state)
		}
	}
}
