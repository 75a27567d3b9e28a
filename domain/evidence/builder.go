package evidence

import (
	"fmt"

	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
	"dsemotion/domain/knowledge"
)

// DefaultEvidenceMass is the mass a feature assigns to the emotions it supports.
// The remainder goes to Omega.
const DefaultEvidenceMass = 0.8

// FeatureBPA is the basic probability assignment contributed by one feature.
type FeatureBPA struct {
	Feature  feature.Feature `json:"feature"`
	Level    feature.Level   `json:"level"`
	Evidence emotion.Set     `json:"evidence"`
	Mass     MassFunction    `json:"mass"`
}

// Builder turns discretized frames into per-feature BPAs using a knowledge base.
type Builder struct {
	kb           *knowledge.Base
	evidenceMass float64
}

// NewBuilder creates a builder. evidenceMass must lie in (0, 1].
func NewBuilder(kb *knowledge.Base, evidenceMass float64) (*Builder, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}
	if !(evidenceMass > 0 && evidenceMass <= 1) {
		return nil, fmt.Errorf("evidence mass %g outside (0, 1]", evidenceMass)
	}
	return &Builder{kb: kb, evidenceMass: evidenceMass}, nil
}

// Build returns one BPA per feature in canonical feature order.
//
// The supported set may be empty. Its mass then stays on the empty focal element,
// so it counts as conflict when combined rather than as extra ignorance.
func (b *Builder) Build(df frame.Discretized) ([]FeatureBPA, error) {
	out := make([]FeatureBPA, 0, feature.Count)
	for _, f := range feature.All {
		level, err := df.Level(f)
		if err != nil {
			return nil, err
		}
		supported := b.kb.Supporting(f, level)
		out = append(out, FeatureBPA{
			Feature:  f,
			Level:    level,
			Evidence: supported,
			Mass:     b.assign(supported),
		})
	}
	return out, nil
}

func (b *Builder) assign(supported emotion.Set) MassFunction {
	m := MassFunction{}
	m[supported] += b.evidenceMass
	if ignorance := 1 - b.evidenceMass; ignorance > 0 {
		m[emotion.Omega] += ignorance
	}
	return m
}
