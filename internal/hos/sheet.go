package hos

import "strings"

// Row is the display form of one entry in the log table.
type Row struct {
	Index    int    `json:"index" yaml:"index"`
	Status   Status `json:"status" yaml:"status"`
	Label    string `json:"label" yaml:"label"`
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
	Duration string `json:"duration" yaml:"duration"`
	Remarks  string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	// Drawn is false when the entry has no bar on the graph.
	Drawn bool `json:"drawn" yaml:"drawn"`
}

// Sheet is everything a view needs to render one day's log.
type Sheet struct {
	Dates   []string  `json:"dates" yaml:"dates"`
	Date    string    `json:"date" yaml:"date"`
	Bars    []Bar     `json:"bars" yaml:"bars"`
	Rows    []Row     `json:"rows" yaml:"rows"`
	Summary Summary   `json:"summary" yaml:"summary"`
	Skipped []Skipped `json:"-" yaml:"-"`

	entries []LogEntry
}

// BuildSheet runs the render pipeline: group, select the active date,
// lay out bars and aggregate the summary. An empty requested date selects
// the first date.
func BuildSheet(entries []LogEntry, requested string) Sheet {
	groups := GroupByDate(entries)
	active := groups.Select(requested)
	day := groups.ByDate[active]

	bars, skipped := Layout(day)
	drawn := make(map[int]bool, len(bars))
	for _, bar := range bars {
		drawn[bar.Index] = true
	}

	rows := make([]Row, 0, len(day))
	for i, entry := range day {
		rows = append(rows, Row{
			Index:    i,
			Status:   entry.Status,
			Label:    entry.Status.Label(),
			Start:    orDash(entry.StartTime),
			End:      orDash(entry.EndTime),
			Duration: displayDuration(entry.Duration),
			Remarks:  strings.TrimSpace(entry.Remarks),
			Drawn:    drawn[i],
		})
	}

	return Sheet{
		Dates:   groups.Dates,
		Date:    active,
		Bars:    bars,
		Rows:    rows,
		Summary: Summarize(day),
		Skipped: skipped,
		entries: day,
	}
}

// Entries returns the active date's entries in arrival order.
func (s Sheet) Entries() []LogEntry {
	return s.entries
}

// Empty reports whether there is nothing to show.
func (s Sheet) Empty() bool {
	return len(s.Dates) == 0
}

func displayDuration(d Duration) string {
	normalized, err := d.Normalize()
	if err != nil {
		return "?"
	}
	return normalized.String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
