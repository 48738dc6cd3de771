package sim

import (
	"strings"
	"testing"
)

func TestToursTickPlaysFirstCityOnly(t *testing.T) {
	tour := PlanTour([]string{"berlin", "tokyo"})
	if !strings.HasPrefix(tour.ID, "tour_") {
		t.Fatalf("tour id prefix: %s", tour.ID)
	}

	state := &GameState{
		Tours:          []*Tour{tour},
		CityPopularity: map[string]float64{"berlin": 0.8, "tokyo": 1.0},
		Prices:         Prices{Ticket: 20},
	}

	ToursTick(state)

	// berlin only: revenue = 0.8*5000*20 = 80000, cost = 5000*5 = 25000.
	if !almostEqual(tour.Revenue, 80000) {
		t.Fatalf("revenue: got %f want 80000", tour.Revenue)
	}
	if !almostEqual(tour.Cost, 25000) {
		t.Fatalf("cost: got %f want 25000", tour.Cost)
	}
	if !almostEqual(state.Cash, 55000) {
		t.Fatalf("cash: got %f want 55000", state.Cash)
	}
}

func TestToursTickUnknownCityFallback(t *testing.T) {
	state := &GameState{
		Tours:  []*Tour{PlanTour([]string{"atlantis"})},
		Prices: Prices{Ticket: 20},
	}

	ToursTick(state)

	// popularity falls back to 0.5: 0.5*5000*20 - 25000 = 25000.
	if !almostEqual(state.Cash, 25000) {
		t.Fatalf("cash: got %f want 25000", state.Cash)
	}
}

func TestToursTickSkipsEmptyTours(t *testing.T) {
	state := &GameState{Tours: []*Tour{nil, {ID: "tour_x"}}}
	ToursTick(state)
	if state.Cash != 0 {
		t.Fatalf("cash: got %f want 0", state.Cash)
	}
}
