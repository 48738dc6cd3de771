package sim

// ApplyContractObligations advances the contract clock and warns when
// the prorated release quota outruns the catalogue. Warnings only; a
// label never terminates the deal here.
func ApplyContractObligations(state *GameState) {
	contract := state.Contract
	if contract == nil {
		return
	}
	contract.WeeksElapsed++
	if contract.TermWeeks <= 0 {
		return
	}
	quota := float64(contract.MinReleases) * float64(contract.WeeksElapsed) / float64(contract.TermWeeks)
	if quota > float64(len(state.Albums)) {
		state.Events = append(state.Events, &Event{
			Type: EventContractWarning,
			Week: state.Week,
			Note: "release schedule behind contract quota",
		})
	}
}

// ComputeRoyaltyPayouts settles last week's sales: the label withholds
// its royalty cut and the artist banks the rest. The default 0.15 rate
// applies when no contract is on file. Returns the label's payout.
func ComputeRoyaltyPayouts(state *GameState) float64 {
	rate := DefaultRoyaltyRate
	if state.Contract != nil {
		rate = clamp(state.Contract.Royalty, 0, 1)
	}

	gross := 0.0
	for _, album := range state.Albums {
		if album == nil {
			continue
		}
		gross += album.Stats.LastWeekSales * state.Prices.Unit
	}
	payout := gross * rate
	state.Cash += gross - payout

	state.Events = append(state.Events, &Event{
		Type:   EventRoyalty,
		Week:   state.Week,
		Amount: payout,
	})
	return payout
}

// LabelsTick is the composed weekly label pass.
func LabelsTick(state *GameState) {
	ApplyContractObligations(state)
	ComputeRoyaltyPayouts(state)
}
