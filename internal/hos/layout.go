package hos

const (
	// HeaderHeight is the pixel height reserved above the first status row.
	HeaderHeight = 6
	// RowHeight is the pixel height of each status row.
	RowHeight = 26
)

// Bar is one positioned duty interval on the 24-hour graph.
type Bar struct {
	// Index is the entry's position within its date group.
	Index  int    `json:"index" yaml:"index"`
	Status Status `json:"status" yaml:"status"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
	Row    int    `json:"row" yaml:"row"`
	// Offset and Width are percentages of the 24-hour track.
	Offset float64 `json:"offset" yaml:"offset"`
	Width  float64 `json:"width" yaml:"width"`
	// Top is the vertical pixel offset of the bar.
	Top int `json:"top" yaml:"top"`
}

// Skipped records an entry excluded from rendering and why.
type Skipped struct {
	Index int
	Entry LogEntry
	Err   error
}

// Place computes the bar geometry for a single entry.
func Place(entry LogEntry) (Bar, error) {
	row := entry.Status.Row()
	if row < 0 {
		return Bar{}, ErrUnknownStatus
	}
	start, end, err := entry.Interval()
	if err != nil {
		return Bar{}, err
	}

	startFraction := float64(start) / MinutesPerDay
	endFraction := float64(end) / MinutesPerDay

	return Bar{
		Status: entry.Status,
		Start:  FormatClock(start),
		End:    FormatClock(end),
		Row:    row,
		Offset: startFraction * 100,
		Width:  (endFraction - startFraction) * 100,
		Top:    HeaderHeight + row*RowHeight,
	}, nil
}

// Layout places every entry of a day. Entries that cannot be drawn are
// returned in skipped instead of aborting the day.
func Layout(entries []LogEntry) (bars []Bar, skipped []Skipped) {
	for i, entry := range entries {
		bar, err := Place(entry)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Entry: entry, Err: err})
			continue
		}
		bar.Index = i
		bars = append(bars, bar)
	}
	return bars, skipped
}
