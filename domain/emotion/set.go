package emotion

import (
	"fmt"
	"strings"
)

// Set is a subset of the frame of discernment, one bit per hypothesis.
// Focal elements of a mass function are Sets.
type Set uint8

const (
	// Empty contains no hypothesis. Its mass is conflict.
	Empty Set = 0
	// Omega is the universal set: total ignorance.
	Omega Set = 1<<Count - 1
)

// OmegaCode is the printed form of Omega.
const OmegaCode = "O"

// NewSet builds a set from the given hypotheses.
func NewSet(emotions ...Emotion) Set {
	var s Set
	for _, e := range emotions {
		s = s.Add(e)
	}
	return s
}

// Singleton returns {e}.
func Singleton(e Emotion) Set {
	return Set(1) << e
}

func (s Set) Add(e Emotion) Set {
	if !e.Valid() {
		return s
	}
	return s | Singleton(e)
}

func (s Set) Contains(e Emotion) bool {
	return e.Valid() && s&Singleton(e) != 0
}

func (s Set) Intersect(o Set) Set { return s & o }

func (s Set) Union(o Set) Set { return s | o }

// Disjoint reports whether s and o share no hypothesis.
func (s Set) Disjoint(o Set) bool { return s&o == 0 }

// SubsetOf reports whether every hypothesis in s is also in o.
func (s Set) SubsetOf(o Set) bool { return s&^o == 0 }

func (s Set) IsEmpty() bool { return s == Empty }

func (s Set) IsOmega() bool { return s&Omega == Omega }

// Valid reports whether s only holds declared hypotheses.
func (s Set) Valid() bool { return s&^Omega == 0 }

// Len returns the number of hypotheses in s.
func (s Set) Len() int {
	n := 0
	for _, e := range All {
		if s.Contains(e) {
			n++
		}
	}
	return n
}

// Emotions lists the members of s in declaration order.
func (s Set) Emotions() []Emotion {
	out := make([]Emotion, 0, Count)
	for _, e := range All {
		if s.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

// String concatenates member codes in declaration order; Omega prints as "O"
// and the empty set as "∅".
func (s Set) String() string {
	switch {
	case s.IsOmega():
		return OmegaCode
	case s.IsEmpty():
		return "∅"
	}
	var b strings.Builder
	for _, e := range s.Emotions() {
		b.WriteString(e.Code())
	}
	return b.String()
}

// MarshalText writes the code form; the empty set encodes as "".
func (s Set) MarshalText() ([]byte, error) {
	if s.IsEmpty() {
		return []byte{}, nil
	}
	return []byte(s.String()), nil
}

func (s *Set) UnmarshalText(text []byte) error {
	parsed, err := ParseSet(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSet reads the code form produced by String. Codes may come in any order.
func ParseSet(text string) (Set, error) {
	text = strings.TrimSpace(text)
	switch text {
	case "", "∅":
		return Empty, nil
	case OmegaCode:
		return Omega, nil
	}
	var s Set
	for _, r := range text {
		e, err := Parse(string(r))
		if err != nil {
			return Empty, fmt.Errorf("focal element %q: %w", text, err)
		}
		s = s.Add(e)
	}
	return s, nil
}
