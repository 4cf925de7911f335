package hos

// SummaryLine is the total for one duty-status category.
type SummaryLine struct {
	Status Status       `json:"status" yaml:"status"`
	Total  HoursMinutes `json:"total" yaml:"total"`
}

// Summary aggregates a day's durations per category.
type Summary struct {
	// Lines follows SummaryOrder and always holds all four categories.
	Lines []SummaryLine `json:"lines" yaml:"lines"`
	// Day is the sum across all categories.
	Day HoursMinutes `json:"day" yaml:"day"`
	// Work is driving plus on-duty time.
	Work HoursMinutes `json:"work" yaml:"work"`
}

// Summarize totals normalized minutes per status. Entries missing a time,
// with an unknown status, or with a malformed duration do not count.
func Summarize(entries []LogEntry) Summary {
	minutes := make(map[Status]int, len(Statuses))
	for _, entry := range entries {
		if !entry.Status.Valid() {
			continue
		}
		if _, _, err := entry.Interval(); err != nil {
			continue
		}
		normalized, err := entry.Duration.Normalize()
		if err != nil {
			continue
		}
		minutes[entry.Status] += normalized.TotalMinutes()
	}

	summary := Summary{Lines: make([]SummaryLine, 0, len(SummaryOrder))}
	day := 0
	for _, status := range SummaryOrder {
		summary.Lines = append(summary.Lines, SummaryLine{Status: status, Total: FromMinutes(minutes[status])})
		day += minutes[status]
	}
	summary.Day = FromMinutes(day)
	summary.Work = FromMinutes(minutes[StatusDriving] + minutes[StatusOnDuty])
	return summary
}

// For returns the total for a single category.
func (s Summary) For(status Status) HoursMinutes {
	for _, line := range s.Lines {
		if line.Status == status {
			return line.Total
		}
	}
	return HoursMinutes{}
}
