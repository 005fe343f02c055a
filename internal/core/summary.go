package core

// YearlySummary aggregates the principal and interest paid during one
// loan year, for charting.
type YearlySummary struct {
	Year      int // 1-based
	Principal float64
	Interest  float64
}

// YearlyTotals folds a schedule into per-year sums. It produces one
// summary per elapsed year and stops at the earlier of termYears or
// schedule exhaustion, so a loan paid off early yields a shorter series
// and a partial final year sums whatever months exist.
func YearlyTotals(schedule []Entry, termYears int) []YearlySummary {
	summaries := make([]YearlySummary, 0, termYears)
	for year := 1; year <= termYears; year++ {
		lo := (year - 1) * monthsPerYear
		if lo >= len(schedule) {
			break
		}
		hi := lo + monthsPerYear
		if hi > len(schedule) {
			hi = len(schedule)
		}
		s := YearlySummary{Year: year}
		for _, e := range schedule[lo:hi] {
			s.Principal += e.Principal
			s.Interest += e.Interest
		}
		summaries = append(summaries, s)
	}
	return summaries
}
