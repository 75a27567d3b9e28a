// Package evidence implements Dempster-Shafer evidence handling: basic probability
// assignments, Dempster's rule of combination, sequential fusion, and decisions.
package evidence

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"dsemotion/domain/emotion"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance bounds float drift when checking that masses sum to one.
const Tolerance = 1e-9

// MassFunction maps focal elements to belief mass. A valid mass function has
// non-negative masses summing to 1.
type MassFunction map[emotion.Set]float64

// Vacuous returns the mass function of total ignorance: all mass on Omega.
func Vacuous() MassFunction {
	return MassFunction{emotion.Omega: 1}
}

// Focal lists focal elements with positive mass in ascending bit order.
func (m MassFunction) Focal() []emotion.Set {
	out := make([]emotion.Set, 0, len(m))
	for set, mass := range m {
		if mass > 0 {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Mass returns the mass on set, zero when set is not focal.
func (m MassFunction) Mass(set emotion.Set) float64 {
	return m[set]
}

// Total sums every mass, visiting focal elements in a fixed order.
func (m MassFunction) Total() float64 {
	masses := make([]float64, 0, len(m))
	for _, set := range m.Focal() {
		masses = append(masses, m[set])
	}
	return floats.Sum(masses)
}

// HasEmpty reports whether m holds mass on the empty set.
func (m MassFunction) HasEmpty() bool {
	return m[emotion.Empty] > 0
}

// Validate checks membership, non-negativity and unit total.
func (m MassFunction) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("mass function has no focal elements")
	}
	for set, mass := range m {
		if !set.Valid() {
			return fmt.Errorf("focal element %08b outside the frame of discernment", uint8(set))
		}
		if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
			return fmt.Errorf("focal element %s has invalid mass %g", set, mass)
		}
	}
	if total := m.Total(); !scalar.EqualWithinAbs(total, 1, Tolerance) {
		return fmt.Errorf("masses sum to %g, want 1", total)
	}
	return nil
}

// Clone returns an independent copy.
func (m MassFunction) Clone() MassFunction {
	out := make(MassFunction, len(m))
	for set, mass := range m {
		out[set] = mass
	}
	return out
}

// EqualWithin compares two mass functions focal element by focal element.
func (m MassFunction) EqualWithin(o MassFunction, tol float64) bool {
	for _, set := range m.Focal() {
		if !scalar.EqualWithinAbs(m[set], o[set], tol) {
			return false
		}
	}
	for _, set := range o.Focal() {
		if !scalar.EqualWithinAbs(m[set], o[set], tol) {
			return false
		}
	}
	return true
}

// String renders "{fh:0.8, O:0.2}" in focal order.
func (m MassFunction) String() string {
	parts := make([]string, 0, len(m))
	for _, set := range m.Focal() {
		parts = append(parts, fmt.Sprintf("%s:%.4g", set, m[set]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
