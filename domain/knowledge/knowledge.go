// Package knowledge holds the static evidence table: for each emotion and feature,
// the qualitative levels that count as evidence for that emotion.
package knowledge

import (
	"fmt"
	"strings"

	"dsemotion/domain/core"
	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
)

// Table is the raw emotion × feature → levels mapping. Absent entries mean "no evidence".
type Table map[emotion.Emotion]map[feature.Feature][]feature.Level

// Base is an immutable, validated knowledge base.
type Base struct {
	entries     [emotion.Count][feature.Count]feature.LevelSet
	fingerprint core.Hash
}

// New validates a table and freezes it into a Base.
func New(table Table) (*Base, error) {
	b := &Base{}
	for e, row := range table {
		if !e.Valid() {
			return nil, core.NewKnowledgeBaseError(fmt.Sprintf("unknown emotion %d", uint8(e)))
		}
		for f, levels := range row {
			if !f.Valid() {
				return nil, core.NewKnowledgeBaseError(fmt.Sprintf("unknown feature %d for %s", uint8(f), e))
			}
			for _, l := range levels {
				if !l.Valid() {
					return nil, core.NewKnowledgeBaseError(fmt.Sprintf("invalid level %d for %s/%s", uint8(l), e, f.Code()))
				}
			}
			b.entries[e][f] = feature.NewLevelSet(levels...)
		}
	}
	b.fingerprint = core.NewHash([]byte(b.canonical()))
	return b, nil
}

// MustNew is New for tables known to be valid at compile time.
func MustNew(table Table) *Base {
	b, err := New(table)
	if err != nil {
		panic(err)
	}
	return b
}

// Levels returns the evidencing levels for (e, f); empty means no evidence.
func (b *Base) Levels(e emotion.Emotion, f feature.Feature) feature.LevelSet {
	if !e.Valid() || !f.Valid() {
		return 0
	}
	return b.entries[e][f]
}

// Supporting returns every emotion whose entry for f contains level.
func (b *Base) Supporting(f feature.Feature, level feature.Level) emotion.Set {
	var s emotion.Set
	for _, e := range emotion.All {
		if b.Levels(e, f).Contains(level) {
			s = s.Add(e)
		}
	}
	return s
}

// Table returns a copy of the underlying table.
func (b *Base) Table() Table {
	t := make(Table, emotion.Count)
	for _, e := range emotion.All {
		row := make(map[feature.Feature][]feature.Level)
		for _, f := range feature.All {
			if levels := b.entries[e][f].Levels(); len(levels) > 0 {
				row[f] = levels
			}
		}
		t[e] = row
	}
	return t
}

// Fingerprint identifies the table content; two bases with equal entries share it.
func (b *Base) Fingerprint() core.Hash {
	return b.fingerprint
}

// canonical renders the table in declaration order, one "emotion feature levels" line each.
func (b *Base) canonical() string {
	var sb strings.Builder
	for _, e := range emotion.All {
		for _, f := range feature.All {
			fmt.Fprintf(&sb, "%s %s %s\n", e.Code(), f.Code(), b.entries[e][f])
		}
	}
	return sb.String()
}
