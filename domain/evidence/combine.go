package evidence

import (
	"dsemotion/domain/core"
)

// conflictEpsilon is how close 1-K may come to zero before combination is refused.
const conflictEpsilon = 1e-12

// Combination is the outcome of Dempster's rule on two mass functions.
type Combination struct {
	Mass MassFunction
	// Conflict is K, the mass of all pairs with an empty intersection.
	Conflict float64
}

// Combine fuses two mass functions with Dempster's rule of combination.
func Combine(a, b MassFunction) (MassFunction, error) {
	c, err := CombineWithConflict(a, b)
	if err != nil {
		return nil, err
	}
	return c.Mass, nil
}

// CombineWithConflict applies Dempster's rule and also reports the conflict mass K.
//
// Every pair (i, j) contributes m_a(i)·m_b(j) to i ∩ j. Omega is the full frame, so it
// intersects as the identity. Pairs with an empty intersection feed K instead of any
// focal element, including pairs where one side is the empty focal element. After all
// pairs are visited the result is divided once by 1-K. Total conflict (K = 1) yields
// ErrFusionConflict; the unnormalizable result is never returned.
//
// Pairs are visited in ascending focal order on both sides, so the accumulation order
// does not depend on map iteration and repeated calls agree bit for bit.
func CombineWithConflict(a, b MassFunction) (Combination, error) {
	left, right := a.Focal(), b.Focal()
	if len(left) == 0 || len(right) == 0 {
		return Combination{}, core.ErrNoEvidence
	}
	result := make(MassFunction, len(left)*len(right))
	conflict := 0.0

	for _, i := range left {
		for _, j := range right {
			product := a[i] * b[j]
			x := i.Intersect(j)
			if x.IsEmpty() {
				conflict += product
				continue
			}
			result[x] += product
		}
	}

	norm := 1 - conflict
	if norm <= conflictEpsilon {
		return Combination{Conflict: conflict}, core.ErrFusionConflict
	}
	for set := range result {
		result[set] /= norm
	}
	return Combination{Mass: result, Conflict: conflict}, nil
}
