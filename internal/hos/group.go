package hos

import "sort"

// Groups partitions entries by calendar date.
type Groups struct {
	// Dates holds every distinct date in ascending order.
	Dates []string
	// ByDate maps a date to its entries in arrival order.
	ByDate map[string][]LogEntry
}

// GroupByDate builds the date partition. ISO dates sort chronologically as strings.
func GroupByDate(entries []LogEntry) Groups {
	groups := Groups{ByDate: make(map[string][]LogEntry)}
	for _, entry := range entries {
		if _, seen := groups.ByDate[entry.Date]; !seen {
			groups.Dates = append(groups.Dates, entry.Date)
		}
		groups.ByDate[entry.Date] = append(groups.ByDate[entry.Date], entry)
	}
	sort.Strings(groups.Dates)
	return groups
}

// Select resolves the active date tab. The requested date wins when it has
// entries; otherwise the first date is the default. Empty groups yield "".
func (g Groups) Select(requested string) string {
	if requested != "" {
		if _, ok := g.ByDate[requested]; ok {
			return requested
		}
	}
	if len(g.Dates) == 0 {
		return ""
	}
	return g.Dates[0]
}

// Neighbor returns the date offset steps away from current, clamped to the ends.
func (g Groups) Neighbor(current string, offset int) string {
	if len(g.Dates) == 0 {
		return ""
	}
	index := 0
	for i, date := range g.Dates {
		if date == current {
			index = i
			break
		}
	}
	index += offset
	if index < 0 {
		index = 0
	}
	if index >= len(g.Dates) {
		index = len(g.Dates) - 1
	}
	return g.Dates[index]
}
