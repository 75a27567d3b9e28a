package evidence

import (
	"math/rand"
	"testing"

	"dsemotion/domain/core"
	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
	"dsemotion/domain/knowledge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

var (
	fh  = emotion.NewSet(emotion.Fear, emotion.Happiness)
	h   = emotion.Singleton(emotion.Happiness)
	nhd = emotion.NewSet(emotion.Neutral, emotion.Happiness, emotion.Disgust)
	ns  = emotion.NewSet(emotion.Neutral, emotion.Sadness)
)

func discretized(ts int64, levels [feature.Count]feature.Level) frame.Discretized {
	m := make(map[feature.Feature]feature.Level, feature.Count)
	for i, f := range feature.All {
		m[f] = levels[i]
	}
	return frame.Discretized{Timestamp: ts, Levels: m}
}

// happyPattern matches happiness on eight features and nothing on vnc and ma.
var happyPattern = [feature.Count]feature.Level{
	feature.Medium, // fob: h
	feature.Large,  // lea: f h
	feature.Large,  // rea: f h
	feature.Large,  // lbd: f h
	feature.Large,  // rbd: f h
	feature.Small,  // hnc: n h d
	feature.Medium, // vnc: none
	feature.Large,  // lcw: h
	feature.Large,  // rcw: h
	feature.Small,  // ma: none
}

func newBuilder(t *testing.T, mass float64) *Builder {
	t.Helper()
	b, err := NewBuilder(knowledge.Default(), mass)
	require.NoError(t, err)
	return b
}

// randomMass draws a mass function over a few random non-empty focal elements.
func randomMass(rng *rand.Rand) MassFunction {
	m := MassFunction{emotion.Omega: 0.05 + rng.Float64()}
	for k := 0; k < 1+rng.Intn(3); k++ {
		set := emotion.Set(1 + rng.Intn(int(emotion.Omega)))
		m[set] += rng.Float64()
	}
	total := m.Total()
	for set := range m {
		m[set] /= total
	}
	return m
}

func TestBuilderAssignsUnitMassPerFeature(t *testing.T) {
	b := newBuilder(t, DefaultEvidenceMass)

	bpas, err := b.Build(discretized(1, happyPattern))
	require.NoError(t, err)
	require.Len(t, bpas, feature.Count)

	for i, bpa := range bpas {
		assert.Equal(t, feature.All[i], bpa.Feature, "canonical order")
		assert.NoError(t, bpa.Mass.Validate(), bpa.Feature.Code())
		assert.InDelta(t, 0.2, bpa.Mass.Mass(emotion.Omega), tol)
		assert.InDelta(t, 0.8, bpa.Mass.Mass(bpa.Evidence), tol)
	}

	assert.Equal(t, h, bpas[0].Evidence)
	assert.Equal(t, fh, bpas[1].Evidence)
	assert.Equal(t, nhd, bpas[5].Evidence)
	// No emotion claims a medium vertical nose crinkle: the mass stays on the empty set.
	assert.Equal(t, emotion.Empty, bpas[6].Evidence)
	assert.True(t, bpas[6].Mass.HasEmpty())
}

func TestBuilderRejectsIncompleteFrames(t *testing.T) {
	b := newBuilder(t, DefaultEvidenceMass)

	df := discretized(7, happyPattern)
	delete(df.Levels, feature.MouthAperture)
	_, err := b.Build(df)
	assert.ErrorIs(t, err, core.ErrInvalidFrame)

	df = discretized(8, happyPattern)
	df.Levels[feature.BrowFurrowing] = feature.Level(3)
	_, err = b.Build(df)
	assert.ErrorIs(t, err, core.ErrInvalidFrame)
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(nil, 0.8)
	assert.Error(t, err)
	for _, bad := range []float64{0, -0.1, 1.5} {
		_, err := NewBuilder(knowledge.Default(), bad)
		assert.Error(t, err, "mass %g", bad)
	}

	// With all mass on the evidence, Omega is not a focal element.
	bpas, err := newBuilder(t, 1).Build(discretized(1, happyPattern))
	require.NoError(t, err)
	assert.Equal(t, []emotion.Set{h}, bpas[0].Mass.Focal())
}

func TestCombineKnownValues(t *testing.T) {
	a := MassFunction{h: 0.8, emotion.Omega: 0.2}
	b := MassFunction{ns: 0.8, emotion.Omega: 0.2}

	c, err := CombineWithConflict(a, b)
	require.NoError(t, err)

	// h∩ns is empty: K = 0.64, and the remaining 0.36 is renormalized.
	assert.InDelta(t, 0.64, c.Conflict, tol)
	assert.InDelta(t, 0.16/0.36, c.Mass.Mass(h), tol)
	assert.InDelta(t, 0.16/0.36, c.Mass.Mass(ns), tol)
	assert.InDelta(t, 0.04/0.36, c.Mass.Mass(emotion.Omega), tol)
	assert.NoError(t, c.Mass.Validate())
	assert.False(t, c.Mass.HasEmpty())
}

func TestCombineIntersectsFocalElements(t *testing.T) {
	a := MassFunction{fh: 0.8, emotion.Omega: 0.2}
	b := MassFunction{nhd: 0.8, emotion.Omega: 0.2}

	c, err := CombineWithConflict(a, b)
	require.NoError(t, err)
	assert.Zero(t, c.Conflict)
	assert.InDelta(t, 0.64, c.Mass.Mass(h), tol)
	assert.InDelta(t, 0.16, c.Mass.Mass(fh), tol)
	assert.InDelta(t, 0.16, c.Mass.Mass(nhd), tol)
	assert.InDelta(t, 0.04, c.Mass.Mass(emotion.Omega), tol)
}

func TestCombineEmptyFocalElementIsConflict(t *testing.T) {
	a := MassFunction{h: 0.8, emotion.Omega: 0.2}
	noMatch := MassFunction{emotion.Empty: 0.8, emotion.Omega: 0.2}

	c, err := CombineWithConflict(a, noMatch)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, c.Conflict, tol)
	// A non-matching feature leaves the other source unchanged after renormalization.
	assert.True(t, c.Mass.EqualWithin(a, tol), c.Mass.String())
}

func TestCombineIsCommutative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a, b := randomMass(rng), randomMass(rng)
		ab, err := Combine(a, b)
		require.NoError(t, err)
		ba, err := Combine(b, a)
		require.NoError(t, err)
		assert.True(t, ab.EqualWithin(ba, tol), "%s vs %s", ab, ba)
		assert.NoError(t, ab.Validate())
	}
}

func TestCombineVacuousIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		a := randomMass(rng)
		left, err := Combine(a, Vacuous())
		require.NoError(t, err)
		right, err := Combine(Vacuous(), a)
		require.NoError(t, err)
		assert.True(t, left.EqualWithin(a, tol), "%s vs %s", left, a)
		assert.True(t, right.EqualWithin(a, tol), "%s vs %s", right, a)
	}
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	a := MassFunction{fh: 0.8, emotion.Omega: 0.2}
	b := MassFunction{emotion.Empty: 0.8, emotion.Omega: 0.2}
	aCopy, bCopy := a.Clone(), b.Clone()

	_, err := Combine(a, b)
	require.NoError(t, err)
	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}

func TestCombineTotalConflict(t *testing.T) {
	a := MassFunction{emotion.Singleton(emotion.Neutral): 1}
	b := MassFunction{emotion.Singleton(emotion.Sadness): 1}

	c, err := CombineWithConflict(a, b)
	assert.ErrorIs(t, err, core.ErrFusionConflict)
	assert.Nil(t, c.Mass)
	assert.InDelta(t, 1, c.Conflict, tol)

	_, err = Combine(MassFunction{emotion.Empty: 1}, Vacuous())
	assert.ErrorIs(t, err, core.ErrFusionConflict)

	_, err = Combine(MassFunction{}, Vacuous())
	assert.ErrorIs(t, err, core.ErrNoEvidence)
}

func TestFuseHappinessPattern(t *testing.T) {
	bpas, err := newBuilder(t, DefaultEvidenceMass).Build(discretized(1, happyPattern))
	require.NoError(t, err)

	fusion, err := Fuse(bpas)
	require.NoError(t, err)
	require.NoError(t, fusion.Mass.Validate())
	assert.Len(t, fusion.Steps, feature.Count-1)
	assert.Equal(t, feature.LeftEyeAperture, fusion.Steps[0].Feature)

	pl := Plausibility(fusion.Mass)
	best, score := Decide(pl)
	assert.Equal(t, emotion.Happiness, best)
	for _, e := range emotion.All {
		assert.GreaterOrEqual(t, pl[e], 0.0)
		assert.LessOrEqual(t, pl[e], 1.0)
		if e != emotion.Happiness {
			assert.Greater(t, score, pl[e], e.String())
		}
	}

	// The fold never mutates its inputs.
	for _, bpa := range bpas {
		assert.NoError(t, bpa.Mass.Validate())
		assert.Len(t, bpa.Mass, 2)
	}
}

func TestFuseIsReproducible(t *testing.T) {
	bpas, err := newBuilder(t, DefaultEvidenceMass).Build(discretized(1, happyPattern))
	require.NoError(t, err)

	first, err := FuseAll(bpas)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := FuseAll(bpas)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFuseNoMatchingEvidence(t *testing.T) {
	// Mouth aperture small, vertical nose crinkles large: no emotion claims either.
	noMatch := MassFunction{emotion.Empty: 0.8, emotion.Omega: 0.2}
	bpas := []FeatureBPA{
		{Feature: feature.VerticalNoseCrinkles, Mass: noMatch},
		{Feature: feature.MouthAperture, Mass: noMatch.Clone()},
		{Feature: feature.VerticalNoseCrinkles, Mass: noMatch.Clone()},
	}

	m, err := FuseAll(bpas)
	require.NoError(t, err)
	assert.InDelta(t, 1, m.Mass(emotion.Omega), tol)

	pl := Plausibility(m)
	for _, e := range emotion.All {
		assert.InDelta(t, 1, pl[e], tol)
	}
	best, _ := Decide(pl)
	assert.Equal(t, emotion.Neutral, best, "ties resolve to the first declared emotion")
}

func TestFuseReportsConflictingFeature(t *testing.T) {
	bpas, err := newBuilder(t, 1).Build(discretized(1, [feature.Count]feature.Level{
		feature.Medium, // fob: h
		feature.Large,  // lea: f h
		feature.Large, feature.Large, feature.Large,
		feature.Large, // hnc: f d -> h ∩ {f,d} is empty
		feature.Small, feature.Large, feature.Large, feature.Large,
	}))
	require.NoError(t, err)

	fusion, err := Fuse(bpas)
	require.Error(t, err)
	assert.True(t, core.IsConflictError(err))
	assert.Contains(t, err.Error(), "hnc")
	require.Len(t, fusion.Steps, 5)
	last := fusion.Steps[4]
	assert.Equal(t, feature.HorizontalNoseCrinkles, last.Feature)
	assert.InDelta(t, 1, last.Conflict, tol)
	assert.InDelta(t, 1, fusion.MaxConflict(), tol)
	assert.Nil(t, fusion.Mass)

	_, err = Fuse(nil)
	assert.ErrorIs(t, err, core.ErrNoEvidence)
}

func TestDecideTieBreak(t *testing.T) {
	best, score := Decide(Scores{
		emotion.Neutral:   0.2,
		emotion.Sadness:   0.7,
		emotion.Fear:      0.1,
		emotion.Happiness: 0.7,
		emotion.Disgust:   0.7,
	})
	assert.Equal(t, emotion.Sadness, best)
	assert.Equal(t, 0.7, score)
}

func TestBeliefAndPlausibilityBounds(t *testing.T) {
	m := MassFunction{h: 0.5, fh: 0.3, emotion.Omega: 0.2}
	pl := Plausibility(m)
	bel := Belief(m)

	assert.InDelta(t, 1.0, pl[emotion.Happiness], tol)
	assert.InDelta(t, 0.5, pl[emotion.Fear], tol)
	assert.InDelta(t, 0.2, pl[emotion.Neutral], tol)
	assert.InDelta(t, 0.5, bel[emotion.Happiness], tol)
	assert.Zero(t, bel[emotion.Fear])
	for _, e := range emotion.All {
		assert.LessOrEqual(t, bel[e], pl[e])
	}

	// Float drift above one is clamped.
	drift := Plausibility(MassFunction{emotion.Omega: 1 + 1e-15})
	assert.Equal(t, 1.0, drift[emotion.Disgust])
}

func TestMassFunctionValidate(t *testing.T) {
	assert.Error(t, MassFunction{}.Validate())
	assert.Error(t, MassFunction{h: 0.5}.Validate())
	assert.Error(t, MassFunction{h: 1.2, fh: -0.2}.Validate())
	assert.Error(t, MassFunction{emotion.Set(0xE0): 1}.Validate())
	assert.NoError(t, Vacuous().Validate())
	assert.Equal(t, "{h:0.5, fh:0.3, O:0.2}", MassFunction{h: 0.5, fh: 0.3, emotion.Omega: 0.2}.String())
}
