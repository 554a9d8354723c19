// Package logger holds the shopctl process logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	Level  string // trace, debug, info, warn or error; anything else is warn
	Pretty bool
	Output io.Writer // defaults to os.Stderr
}

var (
	mu      sync.RWMutex
	current = zerolog.Nop()
)

// Init builds the process logger from opts and installs it. Each call
// replaces the previous logger, so one process can run several commands.
func Init(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	log := zerolog.New(out).Level(ParseLevel(opts.Level)).
		With().Timestamp().Str("app", "shopctl").Logger()

	mu.Lock()
	current = log
	mu.Unlock()
	return log
}

// Get returns the installed logger. Before Init it discards everything.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Reset puts back the discarding logger. Tests only.
func Reset() {
	mu.Lock()
	current = zerolog.Nop()
	mu.Unlock()
}

// ParseLevel maps a level name onto the trace..error range, defaulting to warn.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl < zerolog.TraceLevel || lvl > zerolog.ErrorLevel {
		return zerolog.WarnLevel
	}
	return lvl
}
