package sim

// Credit adds to the cash ledger. There is no floor: going broke is a
// valid simulated state, not an error.
func Credit(state *GameState, amount float64) {
	state.Cash += amount
}

// Debit removes from the cash ledger, allowing the balance to go
// negative.
func Debit(state *GameState, amount float64) {
	state.Cash -= amount
}
