package evidence

import (
	"errors"
	"fmt"

	"dsemotion/domain/core"
	"dsemotion/domain/feature"
)

// Step records the conflict met while folding in one feature.
type Step struct {
	Feature  feature.Feature `json:"feature"`
	Conflict float64         `json:"conflict"`
}

// Fusion is the result of folding every feature BPA of a frame.
type Fusion struct {
	Mass  MassFunction `json:"mass"`
	Steps []Step       `json:"steps"`
}

// MaxConflict returns the largest per-step conflict.
func (f Fusion) MaxConflict() float64 {
	max := 0.0
	for _, s := range f.Steps {
		if s.Conflict > max {
			max = s.Conflict
		}
	}
	return max
}

// Fuse left-folds Dempster's rule over bpas in the order given. Callers pass BPAs in
// canonical feature order (Builder.Build does). The accumulator is threaded explicitly;
// no input is modified. A fusion conflict is wrapped with the feature that caused it,
// and that feature's step is the last one recorded.
func Fuse(bpas []FeatureBPA) (Fusion, error) {
	if len(bpas) == 0 {
		return Fusion{}, core.ErrNoEvidence
	}

	acc := bpas[0].Mass.Clone()
	steps := make([]Step, 0, len(bpas)-1)
	for _, next := range bpas[1:] {
		c, err := CombineWithConflict(acc, next.Mass)
		if errors.Is(err, core.ErrFusionConflict) {
			steps = append(steps, Step{Feature: next.Feature, Conflict: c.Conflict})
			return Fusion{Steps: steps}, core.NewFusionConflictError(next.Feature.Code(), c.Conflict)
		}
		if err != nil {
			return Fusion{Steps: steps}, fmt.Errorf("fold %s: %w", next.Feature.Code(), err)
		}
		steps = append(steps, Step{Feature: next.Feature, Conflict: c.Conflict})
		acc = c.Mass
	}
	return Fusion{Mass: acc, Steps: steps}, nil
}

// FuseAll is Fuse without the per-step diagnostics.
func FuseAll(bpas []FeatureBPA) (MassFunction, error) {
	f, err := Fuse(bpas)
	if err != nil {
		return nil, err
	}
	return f.Mass, nil
}
