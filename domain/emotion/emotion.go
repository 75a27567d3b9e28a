// Package emotion defines the frame of discernment: the five mutually exclusive
// emotion hypotheses and sets over them.
package emotion

import (
	"fmt"
	"strings"
)

// Emotion is one hypothesis of the frame of discernment.
type Emotion uint8

// Declaration order is significant: it is the tie-break order for decisions.
const (
	Neutral Emotion = iota
	Sadness
	Fear
	Happiness
	Disgust
)

// Count is the size of the frame of discernment.
const Count = 5

// All lists every hypothesis in declaration order.
var All = [Count]Emotion{Neutral, Sadness, Fear, Happiness, Disgust}

var (
	codes = [Count]string{"n", "s", "f", "h", "d"}
	names = [Count]string{"neutral", "sadness", "fear", "happiness", "disgust"}
)

// Valid reports whether e is one of the declared hypotheses.
func (e Emotion) Valid() bool {
	return e < Count
}

// Code returns the stable one-letter code.
func (e Emotion) Code() string {
	if !e.Valid() {
		return "?"
	}
	return codes[e]
}

// String returns the lowercase name.
func (e Emotion) String() string {
	if !e.Valid() {
		return fmt.Sprintf("emotion(%d)", uint8(e))
	}
	return names[e]
}

// MarshalText encodes the emotion as its code, so maps keyed by Emotion serialize as codes.
func (e Emotion) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid emotion %d", uint8(e))
	}
	return []byte(e.Code()), nil
}

func (e *Emotion) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Parse accepts either a code ("h") or a name ("happiness"), case-insensitively.
func Parse(s string) (Emotion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range All {
		if s == codes[e] || s == names[e] {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown emotion %q", s)
}
