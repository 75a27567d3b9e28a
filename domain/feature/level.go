package feature

import (
	"fmt"
	"strings"
)

// Level is the qualitative value of a discretized measurement.
type Level uint8

const (
	Small Level = iota
	Medium
	Large
)

// LevelCount is the number of qualitative levels.
const LevelCount = 3

// Levels lists every level from smallest to largest.
var Levels = [LevelCount]Level{Small, Medium, Large}

var (
	levelCodes = [LevelCount]string{"s", "m", "l"}
	levelNames = [LevelCount]string{"small", "medium", "large"}
)

func (l Level) Valid() bool { return l < LevelCount }

func (l Level) Code() string {
	if !l.Valid() {
		return "?"
	}
	return levelCodes[l]
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", uint8(l))
	}
	return levelNames[l]
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level %d", uint8(l))
	}
	return []byte(l.Code()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel accepts a level code ("m") or name ("medium").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if s == levelCodes[l] || s == levelNames[l] {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// LevelSet is a set of levels, one bit per level. The zero value means "no evidence".
type LevelSet uint8

func NewLevelSet(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		if l.Valid() {
			s |= 1 << l
		}
	}
	return s
}

func (s LevelSet) Contains(l Level) bool {
	return l.Valid() && s&(1<<l) != 0
}

func (s LevelSet) IsEmpty() bool { return s == 0 }

// Levels lists members from smallest to largest.
func (s LevelSet) Levels() []Level {
	out := make([]Level, 0, LevelCount)
	for _, l := range Levels {
		if s.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}

// Codes lists member codes from smallest to largest.
func (s LevelSet) Codes() []string {
	out := make([]string, 0, LevelCount)
	for _, l := range s.Levels() {
		out = append(out, l.Code())
	}
	return out
}

func (s LevelSet) String() string {
	if s.IsEmpty() {
		return "-"
	}
	return strings.Join(s.Codes(), ",")
}
