package evidence

import (
	"dsemotion/domain/emotion"
)

// Scores maps each hypothesis to a value in [0, 1].
type Scores map[emotion.Emotion]float64

// Plausibility sums, for every hypothesis, the mass of each focal element containing it
// (Omega included).
func Plausibility(m MassFunction) Scores {
	pl := make(Scores, emotion.Count)
	for _, e := range emotion.All {
		pl[e] = 0
	}
	for _, set := range m.Focal() {
		for _, e := range set.Emotions() {
			pl[e] += m[set]
		}
	}
	for e, v := range pl {
		pl[e] = clampUnit(v)
	}
	return pl
}

// Belief of the singleton {e} is the mass committed to exactly {e}.
func Belief(m MassFunction) Scores {
	bel := make(Scores, emotion.Count)
	for _, e := range emotion.All {
		bel[e] = clampUnit(m[emotion.Singleton(e)])
	}
	return bel
}

// Decide returns the hypothesis with the strictly greatest score. Ties go to the
// hypothesis declared first in the frame of discernment (neutral, sadness, fear,
// happiness, disgust).
func Decide(scores Scores) (emotion.Emotion, float64) {
	best := emotion.All[0]
	bestScore := scores[best]
	for _, e := range emotion.All[1:] {
		if scores[e] > bestScore {
			best, bestScore = e, scores[e]
		}
	}
	return best, bestScore
}

// clampUnit keeps float drift from renormalization inside [0, 1].
func clampUnit(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}
