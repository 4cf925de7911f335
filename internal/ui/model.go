package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
	"github.com/faizmokh/logsheet/internal/session"
)

// Backend is what the viewer needs from the API.
type Backend interface {
	session.Source
	GenerateLogs(ctx context.Context, tripID string) (api.GenerateLogsResult, error)
}

// Exporter archives the sheet currently on screen.
type Exporter interface {
	Save(ctx context.Context, tripID string, sheet hos.Sheet) (string, error)
}

// Options configures NewModel.
type Options struct {
	TripID   string
	Date     string
	Backend  Backend
	Exporter Exporter
	Logger   *slog.Logger
}

// Model owns Bubble Tea state for the log sheet viewer.
type Model struct {
	ctx      context.Context
	backend  Backend
	exporter Exporter
	logger   *slog.Logger
	tripID   string

	session *session.Session
	sheet   hos.Sheet
	date    string

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    KeyMap
	width   int

	// loadSeq identifies the newest load whose result may be applied.
	loadSeq    int
	loading    bool
	generating bool
	statusLine string
	errorLine  string
}

type sessionLoadedMsg struct {
	tripID  string
	seq     int
	session *session.Session
	err     error
}

type logsGeneratedMsg struct {
	tripID string
	result api.GenerateLogsResult
	err    error
}

type exportedMsg struct {
	date string
	path string
	err  error
}

// NewModel seeds a viewer for one trip.
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = statusStyle

	return Model{
		ctx:        ctx,
		backend:    opts.Backend,
		exporter:   opts.Exporter,
		logger:     logger,
		tripID:     opts.TripID,
		date:       opts.Date,
		table:      newTable(defaultWidth),
		spinner:    spin,
		help:       help.New(),
		keys:       DefaultKeyMap,
		width:      defaultWidth,
		loading:    true,
		statusLine: fmt.Sprintf("Loading trip %s...", opts.TripID),
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.table.SetColumns(tableColumns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case sessionLoadedMsg:
		return m.handleSessionLoaded(msg)
	case logsGeneratedMsg:
		return m.handleLogsGenerated(msg)
	case exportedMsg:
		return m.handleExported(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.PrevDate):
		return m.shiftDate(-1)
	case key.Matches(msg, m.keys.NextDate):
		return m.shiftDate(1)
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Generate):
		return m.generate()
	case key.Matches(msg, m.keys.Export):
		return m.export()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) shiftDate(offset int) (tea.Model, tea.Cmd) {
	if m.session == nil || m.sheet.Empty() {
		return m, nil
	}
	next := hos.GroupByDate(m.session.Logs).Neighbor(m.sheet.Date, offset)
	if next == m.sheet.Date {
		return m, nil
	}
	m.date = next
	m.rebuild()
	m.table.SetCursor(0)
	m.statusLine = fmt.Sprintf("Showing %s.", m.sheet.Date)
	m.errorLine = ""
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loadSeq++
	m.loading = true
	m.statusLine = fmt.Sprintf("Refreshing trip %s...", m.tripID)
	m.errorLine = ""
	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

// generate is ignored while a previous request is still pending.
func (m Model) generate() (tea.Model, tea.Cmd) {
	if m.generating || m.backend == nil {
		return m, nil
	}
	m.generating = true
	m.statusLine = "Generating logs..."
	m.errorLine = ""
	return m, tea.Batch(m.spinner.Tick, m.generateCmd())
}

func (m Model) export() (tea.Model, tea.Cmd) {
	if m.exporter == nil {
		m.errorLine = "Export is not configured."
		return m, nil
	}
	if m.sheet.Empty() {
		m.errorLine = "Nothing to export yet."
		return m, nil
	}
	m.statusLine = fmt.Sprintf("Exporting %s...", m.sheet.Date)
	m.errorLine = ""
	return m, m.exportCmd()
}

func (m Model) handleSessionLoaded(msg sessionLoadedMsg) (tea.Model, tea.Cmd) {
	// Ignore results for another trip or from a load superseded by newer logs.
	if msg.tripID != m.tripID || msg.seq != m.loadSeq {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Failed to load trip %s: %v", m.tripID, msg.err)
		m.statusLine = ""
		m.logger.Error("load trip", "trip", m.tripID, "error", msg.err)
		return m, nil
	}

	m.session = msg.session
	m.rebuild()
	m.errorLine = ""
	if m.sheet.Empty() {
		m.statusLine = "No log entries yet. Press g to generate them."
	} else {
		m.statusLine = fmt.Sprintf("Loaded %d entr%s over %d day%s.",
			len(m.session.Logs), plural(len(m.session.Logs), "y", "ies"),
			len(m.sheet.Dates), plural(len(m.sheet.Dates), "", "s"))
	}
	return m, nil
}

func (m Model) handleLogsGenerated(msg logsGeneratedMsg) (tea.Model, tea.Cmd) {
	if msg.tripID != m.tripID {
		return m, nil
	}
	m.generating = false
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Generate failed: %v", msg.err)
		m.statusLine = ""
		m.logger.Error("generate logs", "trip", m.tripID, "error", msg.err)
		return m, nil
	}
	// Any load still in flight predates these logs.
	m.loadSeq++
	if m.session == nil {
		m.loading = true
		return m, m.loadCmd()
	}

	m.loading = false
	m.session = m.session.WithLogs(msg.result.Logs)
	m.rebuild()
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Generated %d log entr%s.", len(msg.result.Logs), plural(len(msg.result.Logs), "y", "ies"))
	return m, nil
}

func (m Model) handleExported(msg exportedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Export failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Exported %s to %s", msg.date, msg.path)
	return m, nil
}

// rebuild re-renders the sheet for the requested date from the session.
func (m *Model) rebuild() {
	if m.session == nil {
		m.sheet = hos.Sheet{}
		m.table.SetRows(nil)
		return
	}
	m.sheet = m.session.Sheet(m.date)
	m.date = m.sheet.Date
	m.table.SetRows(tableRows(m.sheet))
	for _, skipped := range m.sheet.Skipped {
		m.logger.Warn("entry not drawn",
			"trip", m.tripID,
			"date", m.sheet.Date,
			"index", skipped.Index,
			"status", string(skipped.Entry.Status),
			"reason", skipped.Err,
		)
	}
}

func (m Model) busy() bool {
	return m.loading || m.generating
}

func (m Model) loadCmd() tea.Cmd {
	backend, ctx, tripID, seq := m.backend, m.ctx, m.tripID, m.loadSeq
	return func() tea.Msg {
		if backend == nil {
			return sessionLoadedMsg{tripID: tripID, seq: seq, err: fmt.Errorf("no backend configured")}
		}
		s, err := session.Load(ctx, backend, tripID)
		return sessionLoadedMsg{tripID: tripID, seq: seq, session: s, err: err}
	}
}

func (m Model) generateCmd() tea.Cmd {
	backend, ctx, tripID := m.backend, m.ctx, m.tripID
	return func() tea.Msg {
		result, err := backend.GenerateLogs(ctx, tripID)
		return logsGeneratedMsg{tripID: tripID, result: result, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	exporter, ctx, tripID, sheet := m.exporter, m.ctx, m.tripID, m.sheet
	return func() tea.Msg {
		path, err := exporter.Save(ctx, tripID, sheet)
		return exportedMsg{date: sheet.Date, path: path, err: err}
	}
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}
