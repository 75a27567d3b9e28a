package frame

import (
	"encoding/binary"
	"math"

	"dsemotion/domain/core"
	"dsemotion/domain/feature"
)

// Range is the global spread of one feature over a batch.
type Range struct {
	Feature    feature.Feature `json:"feature"`
	Min        float64         `json:"min"`
	Max        float64         `json:"max"`
	Step       float64         `json:"step"`
	Mean       float64         `json:"mean"`
	StdDev     float64         `json:"std_dev"`
	Degenerate bool            `json:"degenerate"`
}

// Level maps v into a third of the range. The upper branch also takes v == Max and
// every value of a degenerate (zero-width) range.
func (r Range) Level(v float64) feature.Level {
	switch {
	case v >= r.Min && v < r.Min+r.Step:
		return feature.Small
	case v >= r.Min+r.Step && v < r.Min+2*r.Step:
		return feature.Medium
	default:
		return feature.Large
	}
}

// Ranges holds one Range per feature, indexed by feature.
type Ranges [feature.Count]Range

// Degenerate lists the features that never varied.
func (rs Ranges) Degenerate() []feature.Feature {
	var out []feature.Feature
	for _, r := range rs {
		if r.Degenerate {
			out = append(out, r.Feature)
		}
	}
	return out
}

// Digest hashes the timestamps and values of frames in order, features in canonical
// order. Two batches with the same digest classify identically under the same settings.
func Digest(frames []Frame) core.Hash {
	buf := make([]byte, 0, len(frames)*8*(feature.Count+1))
	for _, f := range frames {
		buf = binary.BigEndian.AppendUint64(buf, uint64(f.Timestamp))
		for _, ft := range feature.All {
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(f.Values[ft]))
		}
	}
	return core.NewHash(buf)
}
