package sim

import "testing"

func TestMerchTickUncappedSellsFullDemand(t *testing.T) {
	state := &GameState{
		Fans:  10000,
		Merch: []*MerchItem{{ID: "tee", Price: 25, Cost: 10}},
	}

	MerchTick(state)

	// demand = 10000*0.001 = 10, profit = 10 * (25-10) = 150.
	if !almostEqual(state.Cash, 150) {
		t.Fatalf("cash: got %f want 150", state.Cash)
	}
}

func TestMerchTickStockCap(t *testing.T) {
	stock := 4.0
	state := &GameState{
		Fans:  10000,
		Merch: []*MerchItem{{ID: "tee", Price: 25, Cost: 10, Stock: &stock}},
	}

	MerchTick(state)

	if stock != 0 {
		t.Fatalf("stock: got %f want 0", stock)
	}
	if !almostEqual(state.Cash, 60) {
		t.Fatalf("cash: got %f want 60", state.Cash)
	}
}

func TestMerchTickTourBoostAndLossyPricing(t *testing.T) {
	state := &GameState{
		Fans:  1000,
		Merch: []*MerchItem{{ID: "poster", Price: 5, Cost: 8, TourBoost: 9}},
	}

	MerchTick(state)

	// demand = 1 + 9 = 10, but unit profit floors at zero. Selling below
	// cost never drains cash.
	if state.Cash != 0 {
		t.Fatalf("cash: got %f want 0", state.Cash)
	}
}
