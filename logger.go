package quill

import (
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent()) }

func silent() *slog.Logger { return slog.New(slog.DiscardHandler) }

// SetLogger routes quill's diagnostics to l. A nil logger mutes them again,
// which is also the state at startup.
//
// Dispatch traces and index rebuilds are logged at debug, config loading at
// info, unexpected transitions and a missing context at warn, and recovered
// handler panics at error:
//
//	quill.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent()
	}
	current.Store(l)
}

// Logger returns the logger quill writes to. It is safe to call from any
// goroutine.
func Logger() *slog.Logger { return current.Load() }
