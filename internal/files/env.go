package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the folder under the user's home directory.
	DefaultDirName = ".logsheet"
	// HomeEnv overrides where exported log sheets and the log file live.
	HomeEnv = "LOGSHEET_HOME"
)

// ResolveBasePath determines the data directory, defaulting to ~/.logsheet.
// An explicit path wins over LOGSHEET_HOME, which wins over the default.
func ResolveBasePath(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return expandHome(explicit)
	}

	if override, ok := os.LookupEnv(HomeEnv); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return expandHome(override)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

func expandHome(input string) (string, error) {
	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}
