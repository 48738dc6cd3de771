package sim

// Systems is the registry of subsystem ticks the scheduler runs, in
// order. Nil entries are safe no-ops, so callers can compose a partial
// week.
type Systems struct {
	Events func(*GameState)
	Albums func(*GameState)
	Tours  func(*GameState)
	Social func(*GameState)
	Awards func(*GameState)
}

// DefaultSystems wires the default weekly pass. Streaming, YouTube,
// merchandising and label settlement are left out on purpose: callers
// compose those on top of the returned snapshot, and that composition
// point is part of the contract (see the worker's weekly pass).
func DefaultSystems() Systems {
	return Systems{
		Events: ProcessEvents,
		Albums: AlbumsTick,
		Tours:  ToursTick,
		Social: SocialTick,
		Awards: MaybeGiveAwards,
	}
}

// SimulateWeek advances the simulation by exactly one week: it
// shallow-copies the state, increments the week counter, then runs each
// registered subsystem in fixed order. Ordering is the consistency
// contract (events fire before album sales, sales land before awards)
// and every tick mutates the shared entities in place, visible to the
// ticks that follow.
func SimulateWeek(state *GameState, systems Systems) (*GameState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	next := *state
	next.Week++

	for _, tick := range []func(*GameState){
		systems.Events,
		systems.Albums,
		systems.Tours,
		systems.Social,
		systems.Awards,
	} {
		if tick != nil {
			tick(&next)
		}
	}
	return &next, nil
}

// ScheduleEvent returns a new state with the event appended. This is the
// one copy-on-write operation in the core: the input state is left
// untouched so callers can schedule against a snapshot they are still
// reading.
func ScheduleEvent(state *GameState, ev *Event) *GameState {
	next := *state
	next.Events = make([]*Event, 0, len(state.Events)+1)
	next.Events = append(next.Events, state.Events...)
	next.Events = append(next.Events, ev)
	return &next
}
