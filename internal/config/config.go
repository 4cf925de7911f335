// Package config resolves logsheet settings from flags, LOGSHEET_* environment
// variables, an optional YAML file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyAPIURL      = "api-url"
	KeyMapboxToken = "mapbox-token"
	KeyDataDir     = "data-dir"
	KeyLogLevel    = "log-level"
	KeyLogFormat   = "log-format"
	KeyTimeout     = "timeout"
	KeyListen      = "listen"
)

// EnvPrefix namespaces environment overrides, e.g. LOGSHEET_API_URL.
const EnvPrefix = "LOGSHEET"

// DefaultAPIURL matches the backend's development server.
const DefaultAPIURL = "http://localhost:8000/api"

// Config is the resolved runtime configuration.
type Config struct {
	// APIURL is the backend base URL, without a trailing slash.
	APIURL string
	// MapboxToken authorizes geocoding requests. Empty disables geocoding.
	MapboxToken string
	// DataDir overrides where exported sheets and logs are stored.
	DataDir   string
	LogLevel  string
	LogFormat string
	// Timeout bounds each backend and geocoding request.
	Timeout time.Duration
	// Listen is the address the web dashboard binds to.
	Listen string
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// SetDefaults registers built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "auto")
	v.SetDefault(KeyTimeout, 15*time.Second)
	v.SetDefault(KeyListen, "127.0.0.1:7430")
}

// RegisterFlags adds the persistent flags every command understands and binds them to v.
func RegisterFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	flags.String(KeyAPIURL, DefaultAPIURL, "Backend API base URL")
	flags.String(KeyMapboxToken, "", "Mapbox access token for geocoding")
	flags.String(KeyDataDir, "", "Directory for exported sheets and logs (default: $LOGSHEET_HOME or ~/.logsheet)")
	flags.String(KeyLogLevel, "info", "Log level: debug, info, warn, error")
	flags.String(KeyLogFormat, "auto", "Log format: auto, text or json")
	flags.Duration(KeyTimeout, 15*time.Second, "Per-request timeout")

	for _, key := range []string{KeyAPIURL, KeyMapboxToken, KeyDataDir, KeyLogLevel, KeyLogFormat, KeyTimeout} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the optional config file and environment into a Config. An
// explicit file must exist; the default search locations are optional.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".logsheet")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyMapboxToken, EnvPrefix+"_MAPBOX_TOKEN", "MAPBOX_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		APIURL:      strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/"),
		MapboxToken: strings.TrimSpace(v.GetString(KeyMapboxToken)),
		DataDir:     strings.TrimSpace(v.GetString(KeyDataDir)),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:   strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		Timeout:     v.GetDuration(KeyTimeout),
		Listen:      strings.TrimSpace(v.GetString(KeyListen)),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: api-url %q must be an absolute URL", ErrInvalid, c.APIURL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log-level %q (expected debug|info|warn|error)", ErrInvalid, c.LogLevel)
	}
	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("%w: log-format %q (expected auto|text|json)", ErrInvalid, c.LogFormat)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalid)
	}
	return nil
}
