// Package feature names the ten facial measurements and the qualitative levels
// they are discretized into.
package feature

import (
	"fmt"
	"strings"
)

// Feature is one facial measurement.
type Feature uint8

// Declaration order is the canonical fusion order. Evidence is combined feature by
// feature in exactly this order, which fixes the floating-point accumulation order
// and makes fused masses reproducible bit for bit.
const (
	BrowFurrowing Feature = iota
	LeftEyeAperture
	RightEyeAperture
	LeftBrowDistance
	RightBrowDistance
	HorizontalNoseCrinkles
	VerticalNoseCrinkles
	LeftCheekWrinkle
	RightCheekWrinkle
	MouthAperture
)

// Count is the number of features every frame must carry.
const Count = 10

// All lists every feature in canonical order.
var All = [Count]Feature{
	BrowFurrowing,
	LeftEyeAperture,
	RightEyeAperture,
	LeftBrowDistance,
	RightBrowDistance,
	HorizontalNoseCrinkles,
	VerticalNoseCrinkles,
	LeftCheekWrinkle,
	RightCheekWrinkle,
	MouthAperture,
}

var (
	codes = [Count]string{"fob", "lea", "rea", "lbd", "rbd", "hnc", "vnc", "lcw", "rcw", "ma"}
	names = [Count]string{
		"furrowing of brow",
		"left eye aperture",
		"right eye aperture",
		"left brow distance",
		"right brow distance",
		"horizontal nose crinkles",
		"vertical nose crinkles",
		"left cheek wrinkle",
		"right cheek wrinkle",
		"mouth aperture",
	}
)

func (f Feature) Valid() bool { return f < Count }

// Code returns the short column code, e.g. "fob".
func (f Feature) Code() string {
	if !f.Valid() {
		return "?"
	}
	return codes[f]
}

// Name returns the descriptive name.
func (f Feature) Name() string {
	if !f.Valid() {
		return fmt.Sprintf("feature(%d)", uint8(f))
	}
	return names[f]
}

func (f Feature) String() string { return f.Code() }

func (f Feature) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid feature %d", uint8(f))
	}
	return []byte(f.Code()), nil
}

func (f *Feature) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parse accepts a feature code or its name, case-insensitively. Names may use spaces,
// underscores or dashes ("left_eye_aperture").
func Parse(s string) (Feature, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	name := strings.NewReplacer("_", " ", "-", " ").Replace(s)
	for _, f := range All {
		if s == codes[f] || name == names[f] {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", s)
}
