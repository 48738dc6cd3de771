package sim

import "math"

// MerchTick sells one week of merchandise. An item without a stock cap
// sells exactly its demand; capped items never go below zero stock.
func MerchTick(state *GameState) {
	for _, item := range state.Merch {
		if item == nil {
			continue
		}
		demand := math.Max(0, float64(state.Fans)*0.001+item.TourBoost)
		sold := demand
		if item.Stock != nil {
			sold = math.Min(demand, *item.Stock)
			if sold < 0 {
				sold = 0
			}
			*item.Stock -= sold
		}
		unitProfit := math.Max(0, item.Price-item.Cost)
		state.Cash += sold * unitProfit
	}
}
