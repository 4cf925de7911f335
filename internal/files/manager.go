package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	sheetsDir   = "sheets"
	logFileName = "logsheet.log"
)

// Manager centralizes where exported log sheets and the application log
// live on disk and how month files are named.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at basePath. If basePath is empty
// it falls back to ResolveBasePath.
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath("")
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root data directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// MonthPath resolves the archive file holding sheets for the month of t.
// The file may not exist yet.
func (m *Manager) MonthPath(t time.Time) string {
	yearDir := filepath.Join(m.basePath, sheetsDir, fmt.Sprintf("%04d", t.Year()))
	return filepath.Join(yearDir, fmt.Sprintf("%04d-%02d.md", t.Year(), t.Month()))
}

// EnsureMonthFile creates the month file with its heading if needed and
// returns its absolute path.
func (m *Manager) EnsureMonthFile(t time.Time) (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}

	path := m.MonthPath(t)
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePermissions)
	if err != nil {
		return "", fmt.Errorf("open month file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat month file: %w", err)
	}

	if info.Size() == 0 {
		if _, err := file.WriteString(monthHeader(t)); err != nil {
			return "", fmt.Errorf("write month header: %w", err)
		}
	}

	return path, nil
}

// MonthExists reports whether an archive file exists for the month of t.
func (m *Manager) MonthExists(t time.Time) bool {
	info, err := os.Stat(m.MonthPath(t))
	return err == nil && !info.IsDir()
}

// Months lists the first day of every month that has an archive file,
// oldest first.
func (m *Manager) Months() ([]time.Time, error) {
	pattern := filepath.Join(m.basePath, sheetsDir, "[0-9][0-9][0-9][0-9]", "[0-9][0-9][0-9][0-9]-[0-9][0-9].md")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list month files: %w", err)
	}

	months := make([]time.Time, 0, len(paths))
	for _, path := range paths {
		month, err := time.Parse("2006-01", strings.TrimSuffix(filepath.Base(path), ".md"))
		if err != nil {
			continue
		}
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}

// LogPath is where the TUI writes structured logs.
func (m *Manager) LogPath() string {
	return filepath.Join(m.basePath, logFileName)
}

// OpenLog opens the log file for appending, creating the data directory first.
func (m *Manager) OpenLog() (*os.File, error) {
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	file, err := os.OpenFile(m.LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermissions)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func monthHeader(t time.Time) string {
	return fmt.Sprintf("# %s %04d\n\n", t.Month().String(), t.Year())
}
