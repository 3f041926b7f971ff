// xgxlog.go — zerolog setup and an Observer that logs wrapped calls.
//
// Package xgxlog configures zerolog for xgx-exec programs and turns observer
// Events into log lines:
//
//	panic              → error
//	deadline fired     → warn
//	error translated   → info
//	anything else      → debug
package xgxlog

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment overrides applied by Settings.FromEnv. Booleans accept
// strconv.ParseBool syntax.
const (
	EnvLogLevel     = "XGX_LOG_LEVEL"
	EnvLogTimestamp = "XGX_LOG_TIMESTAMP"
	EnvLogNoColor   = "XGX_LOG_NOCOLOR"
	EnvLogJSON      = "XGX_LOG_JSON"
)

// Profile selects DefaultSettings: info with timestamps at runtime, debug
// without timestamps under test.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Settings controls how New builds a logger.
type Settings struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	JSON      bool
}

// DefaultSettings returns the baseline for a profile before env overrides.
func DefaultSettings(profile Profile) Settings {
	switch profile {
	case ProfileTest:
		return Settings{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Settings{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// FromEnv returns s with the XGX_LOG_* overrides applied. Unparseable values
// are ignored.
func (s Settings) FromEnv() Settings {
	return s.withEnv(os.Getenv)
}

func (s Settings) withEnv(getenv func(string) string) Settings {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		s.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		s.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		s.NoColor = v
	}
	if v, ok := parseBool(getenv(EnvLogJSON)); ok {
		s.JSON = v
	}
	return s
}

// New builds a logger writing to w. Console output is used unless s.JSON.
func New(w io.Writer, app string, s Settings) zerolog.Logger {
	if !s.JSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    s.NoColor,
			TimeFormat: time.RFC3339,
		}
	}
	ctx := zerolog.New(w).Level(s.Level).With()
	if s.Timestamp {
		ctx = ctx.Timestamp()
	}
	if app != "" {
		ctx = ctx.Str("app", app)
	}
	return ctx.Logger()
}

var configureOnce sync.Once

// ConfigureRuntime is Configure(ProfileRuntime); main packages call it.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests is Configure(ProfileTest); TestMain functions call it.
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the process-wide logger (zerolog/log.Logger) once.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		log.Logger = New(os.Stderr, "xgx", DefaultSettings(profile).FromEnv())
	})
}

// ParseLevel accepts zerolog level names plus a few aliases.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
