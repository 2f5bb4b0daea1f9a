package trace

import (
	"fmt"
	"strings"
)

// Level controls how much is traced. Each level includes the ones below it.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing is streamed; the ring is dumped on a crash
	LevelPhase        // run and pass boundaries
	LevelDetail       // plus per-file events
	LevelDebug        // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel reads a --trace-level value. The empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope are recorded at this level.
func (l Level) Allows(scope Scope) bool {
	switch {
	case l <= LevelError:
		return false
	case l == LevelPhase:
		return scope <= ScopePass
	case l == LevelDetail:
		return scope <= ScopeFile
	default:
		return true
	}
}
