package ui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
	"github.com/faizmokh/logsheet/internal/logging"
	"github.com/faizmokh/logsheet/internal/session"
)

type fakeBackend struct {
	logs      []hos.LogEntry
	generated []hos.LogEntry
	genCalls  atomic.Int32
	genErr    error
}

func (f *fakeBackend) GetTrip(ctx context.Context, id string) (api.Trip, error) {
	return api.Trip{ID: hos.ID(id), PickupLocation: api.Location{Address: "Denver"}, DropoffLocation: api.Location{Address: "Omaha"}}, nil
}

func (f *fakeBackend) ListStops(ctx context.Context, tripID string) ([]api.Stop, error) {
	return nil, nil
}

func (f *fakeBackend) ListLogEntries(ctx context.Context, tripID string) ([]hos.LogEntry, error) {
	return f.logs, nil
}

func (f *fakeBackend) GenerateLogs(ctx context.Context, tripID string) (api.GenerateLogsResult, error) {
	f.genCalls.Add(1)
	return api.GenerateLogsResult{Message: "ok", Logs: f.generated}, f.genErr
}

type fakeExporter struct {
	saved []hos.Sheet
}

func (f *fakeExporter) Save(ctx context.Context, tripID string, sheet hos.Sheet) (string, error) {
	f.saved = append(f.saved, sheet)
	return "/tmp/sheets/2025/2025-03.md", nil
}

func threeDays() []hos.LogEntry {
	return []hos.LogEntry{
		{Date: "2025-03-02", Status: hos.StatusDriving, StartTime: "06:00", EndTime: "12:00", Duration: hos.Seconds(21600)},
		{Date: "2025-03-01", Status: hos.StatusOffDuty, StartTime: "00:00", EndTime: "24:00", Duration: hos.Seconds(86400)},
		{Date: "2025-03-03", Status: hos.StatusOnDuty, StartTime: "08:00", EndTime: "09:00", Duration: hos.Seconds(3600)},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, backend *fakeBackend, exporter Exporter) Model {
	t.Helper()
	m := NewModel(context.Background(), Options{TripID: "7", Backend: backend, Exporter: exporter, Logger: logging.Discard()})
	msg := m.loadCmd()()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLoadSelectsFirstDate(t *testing.T) {
	m := loadedModel(t, &fakeBackend{logs: threeDays()}, nil)

	if m.loading {
		t.Fatalf("loading = true after load")
	}
	if m.sheet.Date != "2025-03-01" {
		t.Fatalf("sheet.Date = %q, want first date", m.sheet.Date)
	}
	if !strings.Contains(m.statusLine, "3 entries over 3 days") {
		t.Fatalf("statusLine = %q", m.statusLine)
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	m := NewModel(context.Background(), Options{TripID: "7", Logger: logging.Discard()})
	s := &session.Session{TripID: "8", Logs: threeDays()}

	next, _ := m.Update(sessionLoadedMsg{tripID: "8", session: s})
	if got := next.(Model); got.session != nil || !got.loading {
		t.Fatalf("result for another trip was applied")
	}
}

func TestReloadOlderThanGeneratedLogsIsDropped(t *testing.T) {
	backend := &fakeBackend{logs: threeDays(), generated: threeDays()[:1]}
	m := loadedModel(t, backend, nil)

	next, _ := m.Update(keyRunes("r"))
	m = next.(Model)
	reloaded := m.loadCmd()()

	next, _ = m.Update(keyRunes("g"))
	m = next.(Model)
	next, _ = m.Update(m.generateCmd()())
	m = next.(Model)
	if len(m.session.Logs) != 1 {
		t.Fatalf("after generate: %d logs, want 1", len(m.session.Logs))
	}

	next, _ = m.Update(reloaded)
	m = next.(Model)
	if len(m.session.Logs) != 1 {
		t.Fatalf("reload issued before generate replaced logs: %d logs", len(m.session.Logs))
	}
	if m.loading {
		t.Fatalf("loading still true after generated logs arrived")
	}

	next, _ = m.Update(keyRunes("r"))
	m = next.(Model)
	next, _ = m.Update(m.loadCmd()())
	if got := next.(Model); len(got.session.Logs) != 3 {
		t.Fatalf("fresh reload not applied: %d logs", len(got.session.Logs))
	}
}

func TestLoadFailureShowsError(t *testing.T) {
	m := NewModel(context.Background(), Options{TripID: "7", Logger: logging.Discard()})
	next, _ := m.Update(sessionLoadedMsg{tripID: "7", err: errors.New("connection refused")})
	got := next.(Model)
	if !strings.Contains(got.errorLine, "connection refused") {
		t.Fatalf("errorLine = %q", got.errorLine)
	}
	if !strings.Contains(got.View(), "connection refused") {
		t.Fatalf("View should surface the error")
	}
}

func TestDateTabsMoveAndClamp(t *testing.T) {
	m := loadedModel(t, &fakeBackend{logs: threeDays()}, nil)

	steps := []struct {
		key  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, "2025-03-01"},
		{tea.KeyMsg{Type: tea.KeyRight}, "2025-03-02"},
		{keyRunes("l"), "2025-03-03"},
		{tea.KeyMsg{Type: tea.KeyRight}, "2025-03-03"},
		{keyRunes("h"), "2025-03-02"},
	}
	for i, step := range steps {
		next, _ := m.Update(step.key)
		m = next.(Model)
		if m.sheet.Date != step.want {
			t.Fatalf("step %d: sheet.Date = %q, want %q", i, m.sheet.Date, step.want)
		}
	}
	if len(m.sheet.Bars) != 1 || m.sheet.Bars[0].Status != hos.StatusDriving {
		t.Fatalf("bars for 2025-03-02 = %+v", m.sheet.Bars)
	}
}

func TestGenerateIgnoredWhilePending(t *testing.T) {
	backend := &fakeBackend{logs: threeDays(), generated: threeDays()[:1]}
	m := loadedModel(t, backend, nil)

	next, cmd := m.Update(keyRunes("g"))
	m = next.(Model)
	if cmd == nil || !m.generating {
		t.Fatalf("first g should start generation")
	}

	next, cmd = m.Update(keyRunes("g"))
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("second g while pending should be ignored")
	}

	next, _ = m.Update(m.generateCmd()())
	m = next.(Model)
	if m.generating {
		t.Fatalf("generating still true after result")
	}
	if backend.genCalls.Load() != 1 {
		t.Fatalf("GenerateLogs calls = %d, want 1", backend.genCalls.Load())
	}
	if len(m.session.Logs) != 1 || m.sheet.Date != "2025-03-02" {
		t.Fatalf("session not replaced by generated logs: %+v", m.session.Logs)
	}
}

func TestExportSavesActiveSheet(t *testing.T) {
	exporter := &fakeExporter{}
	m := loadedModel(t, &fakeBackend{logs: threeDays()}, exporter)

	next, cmd := m.Update(keyRunes("e"))
	if cmd == nil {
		t.Fatalf("export should return a command")
	}
	next, _ = next.(Model).Update(cmd())
	m = next.(Model)

	if len(exporter.saved) != 1 || exporter.saved[0].Date != "2025-03-01" {
		t.Fatalf("saved = %+v", exporter.saved)
	}
	if !strings.Contains(m.statusLine, "Exported 2025-03-01") {
		t.Fatalf("statusLine = %q", m.statusLine)
	}
}

func TestExportWithoutEntries(t *testing.T) {
	m := loadedModel(t, &fakeBackend{}, &fakeExporter{})
	if _, cmd := m.Update(keyRunes("e")); cmd != nil {
		t.Fatalf("export of an empty sheet should not run")
	}
}

func TestGraphRowsRasterizeBars(t *testing.T) {
	sheet := hos.BuildSheet([]hos.LogEntry{
		{Date: "2025-03-01", Status: hos.StatusDriving, StartTime: "06:00", EndTime: "12:00"},
		{Date: "2025-03-01", Status: hos.StatusOnDuty, StartTime: "12:00", EndTime: "12:10"},
		{Date: "2025-03-01", Status: hos.StatusSleeper, StartTime: "20:00", EndTime: "24:00"},
	}, "")

	rows := graphRows(sheet, 24)
	want := []string{
		"························",
		"····················████",
		"······██████············",
		"············█···········",
	}
	for i, row := range rows {
		if string(row) != want[i] {
			t.Fatalf("row %d = %q, want %q", i, string(row), want[i])
		}
	}
}

func TestHourAxis(t *testing.T) {
	if got, want := hourAxis(24), "0     6     12    18    24"; got != want {
		t.Fatalf("hourAxis(24) = %q, want %q", got, want)
	}
}

func TestPlainGraphLabelsRows(t *testing.T) {
	sheet := hos.BuildSheet([]hos.LogEntry{
		{Date: "2025-03-01", Status: hos.StatusDriving, StartTime: "06:00", EndTime: "12:00"},
	}, "")

	lines := PlainGraph(sheet, 24)
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}
	if want := "          0     6     12    18    24"; lines[0] != want {
		t.Fatalf("axis = %q, want %q", lines[0], want)
	}
	if want := "driving   ······██████············"; lines[3] != want {
		t.Fatalf("driving row = %q, want %q", lines[3], want)
	}
}

func TestViewShowsTabsAndSummary(t *testing.T) {
	m := loadedModel(t, &fakeBackend{logs: threeDays()}, nil)
	view := m.View()
	for _, want := range []string{"Trip 7", "Denver → Omaha", "2025-03-01", "2025-03-03", "Off duty", "24h 0m", "Work"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q:\n%s", want, view)
		}
	}
}
