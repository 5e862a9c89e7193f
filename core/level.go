package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Level identifies one of the fixed training levels
type Level string

const (
	Level1 Level = "level1"
	Level2 Level = "level2"
	Level3 Level = "level3"
)

// ErrUnknownLevel is returned by ParseLevel for identifiers outside level1..level3
var ErrUnknownLevel = errors.New("unknown level")

// Levels returns all levels in ascending difficulty
func Levels() []Level {
	return []Level{Level1, Level2, Level3}
}

// ParseLevel accepts "level2", "2" or "Level2"
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		s = "level" + strconv.Itoa(n)
	}
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return l, nil
}

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	switch l {
	case Level1, Level2, Level3:
		return true
	}
	return false
}

// Number returns the numeric suffix, 0 for unknown levels
func (l Level) Number() int {
	n, err := strconv.Atoi(strings.TrimPrefix(string(l), "level"))
	if err != nil || !l.Valid() {
		return 0
	}
	return n
}

// Name returns the display name
func (l Level) Name() string {
	switch l {
	case Level1:
		return "Follow the Leader"
	case Level2:
		return "Collision Course"
	case Level3:
		return "Find the Pattern"
	}
	return string(l)
}

// Next returns the next harder level, false at the top
func (l Level) Next() (Level, bool) {
	n := l.Number()
	if n == 0 || n >= 3 {
		return "", false
	}
	return Level("level" + strconv.Itoa(n+1)), true
}

// Previous returns the next easier level, false at the bottom
func (l Level) Previous() (Level, bool) {
	n := l.Number()
	if n <= 1 {
		return "", false
	}
	return Level("level" + strconv.Itoa(n-1)), true
}

func (l Level) String() string {
	return string(l)
}
