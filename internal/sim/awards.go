package sim

// awardThreshold and the score weights are fixed balance constants.
const awardThreshold = 5.0

// AwardScore combines career sales with best chart position. Albums that
// never charted score on sales alone.
func AwardScore(album *Album) float64 {
	score := album.Stats.Sales * 0.0001
	if album.ChartPeak > 0 {
		score += float64(100-album.ChartPeak) * 0.5
	}
	return score
}

// MaybeGiveAwards issues award events for albums that sold this week and
// score above the threshold.
func MaybeGiveAwards(state *GameState) {
	for _, album := range state.Albums {
		if album == nil || album.Stats.LastWeekSales <= 0 {
			continue
		}
		if score := AwardScore(album); score > awardThreshold {
			state.Events = append(state.Events, &Event{
				Type:   EventAward,
				Week:   state.Week,
				Amount: score,
				Note:   album.ID,
			})
		}
	}
}
