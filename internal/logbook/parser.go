package logbook

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/faizmokh/logsheet/internal/hos"
)

// Parser incrementally reads a month file and emits sections as they are discovered.
type Parser struct {
	r        io.Reader
	scanner  *bufio.Scanner
	pending  *Section
	initDone bool
}

// NewParser returns a parser ready to tokenize Markdown from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// NextSection returns the next section in the file, or io.EOF.
func (p *Parser) NextSection() (*Section, error) {
	if !p.initDone {
		if p.r == nil {
			return nil, io.EOF
		}
		p.scanner = bufio.NewScanner(p.r)
		p.initDone = true
	}

	section := p.pending
	p.pending = nil

	if section == nil {
		var err error
		section, err = p.consumeUntilSection()
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, io.EOF
		}
	}

	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if next, ok := parseSectionHeading(line); ok {
			p.pending = &next
			return section, nil
		}
		if entry, ok := parseEntryLine(line); ok {
			section.Entries = append(section.Entries, entry)
		}
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return section, nil
}

func (p *Parser) consumeUntilSection() (*Section, error) {
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if section, ok := parseSectionHeading(line); ok {
			return &section, nil
		}
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

var (
	headingPattern  = regexp.MustCompile(`^## (\d{4}-\d{2}-\d{2}) trip (\S+)$`)
	entryPattern    = regexp.MustCompile(`^- \[([a-z0-9_-]+)\] \[(\S+) - (\S+)\] (\?|\d+h \d+m)(?: (.*))?$`)
	durationPattern = regexp.MustCompile(`^(\d+)h (\d+)m$`)
)

func parseSectionHeading(line string) (Section, bool) {
	matches := headingPattern.FindStringSubmatch(line)
	if matches == nil {
		return Section{}, false
	}
	date, err := time.Parse(dateLayout, matches[1])
	if err != nil {
		return Section{}, false
	}
	return Section{Date: date, TripID: matches[2]}, true
}

func parseEntryLine(line string) (Entry, bool) {
	matches := entryPattern.FindStringSubmatch(line)
	if matches == nil {
		return Entry{}, false
	}

	// Unknown statuses were archived verbatim and stay excluded on re-render.
	status, _ := hos.ParseStatus(matches[1])
	entry := Entry{
		Status:  status,
		Start:   undash(matches[2]),
		End:     undash(matches[3]),
		Remarks: strings.TrimSpace(matches[5]),
	}
	if parts := durationPattern.FindStringSubmatch(matches[4]); parts != nil {
		hours, _ := strconv.Atoi(parts[1])
		minutes, _ := strconv.Atoi(parts[2])
		entry.Duration = &hos.HoursMinutes{Hours: hours, Minutes: minutes}
	}
	return entry, true
}

func undash(value string) string {
	if value == "-" {
		return ""
	}
	return value
}
