package sim

import "github.com/google/uuid"

// tourCapacity is the fixed weekly attendance per tour stop.
const (
	tourCapacity    = 5000.0
	tourCostPerSeat = 5.0
)

// PlanTour books a tour over the given cities with empty running totals.
func PlanTour(cities []string) *Tour {
	return &Tour{
		ID:     "tour_" + uuid.NewString(),
		Cities: cities,
	}
}

// ToursTick simulates one week on the road. Only the first city of each
// tour is played; multi-city tours do not rotate yet. City popularity
// falls back to 0.5 when the city is unknown.
func ToursTick(state *GameState) {
	for _, tour := range state.Tours {
		if tour == nil || len(tour.Cities) == 0 {
			continue
		}
		city := tour.Cities[0]
		popularity, ok := state.CityPopularity[city]
		if !ok {
			popularity = DefaultCityPopularity
		}
		revenue := popularity * tourCapacity * state.Prices.Ticket
		cost := tourCapacity * tourCostPerSeat

		tour.Revenue += revenue
		tour.Cost += cost
		state.Cash += revenue - cost
	}
}
