package arbor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

// globalDebug mirrors the most recently set Scene debug flag so that element
// operations outside a scene can check it cheaply. Only valid with a single
// Scene; multiple Scenes with differing debug modes reflect whichever called
// SetDebugMode last.
var globalDebug bool

// debugStats holds per-frame stage timings. Only populated when the scene is
// in debug mode.
type debugStats struct {
	sortTime     time.Duration
	priorityTime time.Duration
	geometryTime time.Duration
	inputTime    time.Duration
	updateTime   time.Duration
	settlePasses int
	elements     int
}

// newLogger returns the default scene logger: text on stderr at the given
// level.
func newLogger(level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("lib", "arbor")
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *slog.Logger {
	return s.logger
}

// SetLogger replaces the scene's logger. A nil logger restores the default.
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = newLogger(&s.level)
	}
	s.logger = l
}

// SetDebugMode toggles debug logging and tree checks. When enabled, the
// default logger drops to slog.LevelDebug, per-frame stage timings are
// logged, and operations on disposed elements panic.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.cfg.Debug = enabled
	globalDebug = enabled
	if enabled {
		s.level.Set(slog.LevelDebug)
	} else {
		s.level.Set(slog.LevelWarn)
	}
}

// debugLog emits one frame's stage timings.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.sortTime + stats.priorityTime + stats.geometryTime + stats.inputTime + stats.updateTime
	s.logger.Debug("frame",
		"frame", s.frame,
		"elements", stats.elements,
		"sort", stats.sortTime,
		"priority", stats.priorityTime,
		"geometry", stats.geometryTime,
		"input", stats.inputTime,
		"update", stats.updateTime,
		"settle_passes", stats.settlePasses,
		"total", total,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// element is used in a tree operation. Callers skip this outside debug mode.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed element %q", op, e.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Element) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		elementLogger(e).Warn("tree depth exceeds threshold",
			"element", e.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if an element has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Element) {
	if len(e.children) > debugMaxChildCount {
		elementLogger(e).Warn("child count exceeds threshold",
			"element", e.Name, "children", len(e.children), "threshold", debugMaxChildCount)
	}
}

func elementLogger(e *Element) *slog.Logger {
	if e.scene != nil {
		return e.scene.logger
	}
	return slog.Default()
}

// DumpTree writes an indented view of the scene to w: one line per element
// with its priority, clip layer, and state markers. Colors are used only
// when w is a terminal.
func (s *Scene) DumpTree(w io.Writer) error {
	out := termenv.NewOutput(w)
	var b strings.Builder
	var walk func(e *Element, depth int)
	walk = func(e *Element, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(out.String(e.Name).Bold().String())
		fmt.Fprintf(&b, " #%d %s", e.ID, e.Kind)
		b.WriteString(out.String(fmt.Sprintf(" p=%d", e.priority)).Foreground(out.Color("6")).String())
		if e.clipLayer > 0 || e.clip {
			b.WriteString(out.String(fmt.Sprintf(" layer=%d", e.clipLayer)).Foreground(out.Color("5")).String())
		}
		if e.clip {
			b.WriteString(" clip")
		}
		if e.Snap != SnapNone {
			b.WriteString(" snap=" + e.Snap.String())
		}
		if !e.visible {
			b.WriteString(out.String(" hidden").Faint().String())
		}
		if !e.active {
			b.WriteString(out.String(" inactive").Faint().String())
		}
		if e == s.focus {
			b.WriteString(out.String(" [focus]").Foreground(out.Color("2")).String())
		}
		if e == s.caught {
			b.WriteString(out.String(" [caught]").Foreground(out.Color("3")).String())
		}
		if e == s.holding {
			b.WriteString(out.String(" [holding]").Foreground(out.Color("1")).String())
		}
		b.WriteByte('\n')
		for _, c := range e.children {
			walk(c, depth+1)
		}
	}
	for _, r := range s.roots {
		walk(r, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
