package knowledge

import (
	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
)

func levels(ls ...feature.Level) []feature.Level { return ls }

// referenceTable is the hand-authored reference table.
// Sadness carries no brow-furrowing evidence: the reference listed a "high" level there,
// which discretization never yields.
func referenceTable() Table {
	s, m, l := feature.Small, feature.Medium, feature.Large
	return Table{
		emotion.Neutral: {
			feature.BrowFurrowing:          levels(s),
			feature.LeftEyeAperture:        levels(m),
			feature.RightEyeAperture:       levels(m),
			feature.LeftBrowDistance:       levels(m),
			feature.RightBrowDistance:      levels(m),
			feature.HorizontalNoseCrinkles: levels(s),
			feature.VerticalNoseCrinkles:   levels(s),
			feature.LeftCheekWrinkle:       levels(s),
			feature.RightCheekWrinkle:      levels(s),
		},
		emotion.Sadness: {
			feature.LeftEyeAperture:        levels(s, m),
			feature.RightEyeAperture:       levels(s, m),
			feature.LeftBrowDistance:       levels(m),
			feature.RightBrowDistance:      levels(m),
			feature.HorizontalNoseCrinkles: levels(m),
			feature.LeftCheekWrinkle:       levels(s, m),
			feature.RightCheekWrinkle:      levels(s, m),
		},
		emotion.Fear: {
			feature.BrowFurrowing:          levels(l),
			feature.LeftEyeAperture:        levels(l),
			feature.RightEyeAperture:       levels(l),
			feature.LeftBrowDistance:       levels(l),
			feature.RightBrowDistance:      levels(l),
			feature.HorizontalNoseCrinkles: levels(l),
			feature.MouthAperture:          levels(l),
		},
		emotion.Happiness: {
			feature.BrowFurrowing:          levels(m),
			feature.LeftEyeAperture:        levels(l),
			feature.RightEyeAperture:       levels(l),
			feature.LeftBrowDistance:       levels(l),
			feature.RightBrowDistance:      levels(l),
			feature.HorizontalNoseCrinkles: levels(s),
			feature.LeftCheekWrinkle:       levels(m, l),
			feature.RightCheekWrinkle:      levels(m, l),
		},
		emotion.Disgust: {
			feature.BrowFurrowing:          levels(s),
			feature.LeftEyeAperture:        levels(s),
			feature.RightEyeAperture:       levels(s),
			feature.LeftBrowDistance:       levels(s),
			feature.RightBrowDistance:      levels(s),
			feature.HorizontalNoseCrinkles: levels(s, m, l),
			feature.LeftCheekWrinkle:       levels(m),
			feature.RightCheekWrinkle:      levels(m),
		},
	}
}

var defaultBase = MustNew(referenceTable())

// Default returns the built-in knowledge base. It is shared and read-only.
func Default() *Base {
	return defaultBase
}
