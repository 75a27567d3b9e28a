package frame

import (
	"fmt"
	"math"

	"dsemotion/domain/core"
	"dsemotion/domain/feature"
)

// Frame is one measurement sample of a video.
type Frame struct {
	Timestamp int64                       `json:"sec"`
	Values    map[feature.Feature]float64 `json:"values"`
}

// New builds a frame from values given in canonical feature order.
func New(timestamp int64, values [feature.Count]float64) Frame {
	m := make(map[feature.Feature]float64, feature.Count)
	for i, f := range feature.All {
		m[f] = values[i]
	}
	return Frame{Timestamp: timestamp, Values: m}
}

// Validate checks that every feature is present and finite.
func (f Frame) Validate() error {
	for _, ft := range feature.All {
		v, ok := f.Values[ft]
		if !ok {
			return core.NewInvalidFrameError(f.Timestamp, fmt.Sprintf("missing feature %s", ft.Code()))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidFrameError(f.Timestamp, fmt.Sprintf("feature %s is not finite", ft.Code()))
		}
	}
	for ft := range f.Values {
		if !ft.Valid() {
			return core.NewInvalidFrameError(f.Timestamp, fmt.Sprintf("unknown feature %d", uint8(ft)))
		}
	}
	return nil
}

// Discretized is a frame whose values were replaced by qualitative levels.
type Discretized struct {
	Timestamp int64                             `json:"sec"`
	Levels    map[feature.Feature]feature.Level `json:"levels"`
}

// Level returns the level of ft, or an invalid-frame error when it is missing or malformed.
func (d Discretized) Level(ft feature.Feature) (feature.Level, error) {
	l, ok := d.Levels[ft]
	if !ok {
		return 0, core.NewInvalidFrameError(d.Timestamp, fmt.Sprintf("missing level for %s", ft.Code()))
	}
	if !l.Valid() {
		return 0, core.NewInvalidFrameError(d.Timestamp, fmt.Sprintf("malformed level %d for %s", uint8(l), ft.Code()))
	}
	return l, nil
}

// Pattern renders the levels in canonical order, e.g. "m l l l l s m l l s".
func (d Discretized) Pattern() string {
	b := make([]byte, 0, 2*feature.Count)
	for i, ft := range feature.All {
		if i > 0 {
			b = append(b, ' ')
		}
		l, ok := d.Levels[ft]
		if !ok || !l.Valid() {
			b = append(b, '?')
			continue
		}
		b = append(b, l.Code()...)
	}
	return string(b)
}
