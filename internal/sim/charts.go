package sim

import "sort"

// ComputeRank scores every album as metric(a) + smooth, stable-sorts
// descending (ties keep their input order), writes 1-based ChartRank and
// lowers ChartPeak where beaten. Returns the items in chart order; the
// input slice is not reordered.
func ComputeRank(items []*Album, metric func(*Album) float64, smooth float64) []*Album {
	ranked := make([]*Album, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric(ranked[i])+smooth > metric(ranked[j])+smooth
	})
	for i, a := range ranked {
		rank := i + 1
		a.ChartRank = rank
		if a.ChartPeak == 0 || rank < a.ChartPeak {
			a.ChartPeak = rank
		}
	}
	return ranked
}

// WeeklySalesMetric is the chart metric the weekly pass uses.
func WeeklySalesMetric(a *Album) float64 {
	return a.Stats.LastWeekSales
}
