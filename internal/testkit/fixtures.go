package testkit

import (
	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
)

// Fixture batches live on a [0, 3] scale. With both anchors present every feature
// ranges exactly over [0, 3], so the discretizer's step is 1 and each level owns one
// unit-wide band.
const (
	ScaleMin = 0.0
	ScaleMax = 3.0
)

// BandCenter is the value placed in the middle of each level's band.
var BandCenter = map[feature.Level]float64{
	feature.Small:  0.5,
	feature.Medium: 1.5,
	feature.Large:  2.5,
}

// Level patterns in canonical feature order (fob lea rea lbd rbd hnc vnc lcw rcw ma).
var (
	HappyPattern = [feature.Count]feature.Level{
		feature.Medium, feature.Large, feature.Large, feature.Large, feature.Large,
		feature.Small, feature.Medium, feature.Large, feature.Large, feature.Small,
	}
	NeutralPattern = [feature.Count]feature.Level{
		feature.Small, feature.Medium, feature.Medium, feature.Medium, feature.Medium,
		feature.Small, feature.Small, feature.Small, feature.Small, feature.Medium,
	}
	SadPattern = uniform(feature.Medium)
)

func uniform(l feature.Level) [feature.Count]feature.Level {
	var p [feature.Count]feature.Level
	for i := range p {
		p[i] = l
	}
	return p
}

// FromLevels builds a frame whose values sit in the middle of each requested band.
func FromLevels(ts int64, levels [feature.Count]feature.Level) frame.Frame {
	var values [feature.Count]float64
	for i, l := range levels {
		values[i] = BandCenter[l]
	}
	return frame.New(ts, values)
}

// Constant builds a frame with every feature set to v.
func Constant(ts int64, v float64) frame.Frame {
	var values [feature.Count]float64
	for i := range values {
		values[i] = v
	}
	return frame.New(ts, values)
}

// Anchors returns the two frames pinning every feature to [ScaleMin, ScaleMax].
func Anchors(lowTS, highTS int64) []frame.Frame {
	return []frame.Frame{Constant(lowTS, ScaleMin), Constant(highTS, ScaleMax)}
}

// ReferenceBatch returns a small batch with a known label per timestamp under the
// default knowledge base and evidence mass. With every BPA split between one set and
// Omega, the plausibility of an emotion grows with the number of features supporting
// it, so the winners follow from counting:
//
//	0s all small  -> disgust   (6 supporting features)
//	1s all large  -> fear      (7)
//	2s happy      -> happiness (8)
//	3s all medium -> sadness   (7)
//	4s neutral    -> neutral   (9)
func ReferenceBatch() ([]frame.Frame, map[int64]emotion.Emotion) {
	frames := append(Anchors(0, 1),
		FromLevels(2, HappyPattern),
		FromLevels(3, SadPattern),
		FromLevels(4, NeutralPattern),
	)
	want := map[int64]emotion.Emotion{
		0: emotion.Disgust,
		1: emotion.Fear,
		2: emotion.Happiness,
		3: emotion.Sadness,
		4: emotion.Neutral,
	}
	return frames, want
}
