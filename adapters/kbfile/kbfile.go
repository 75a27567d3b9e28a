// Package kbfile reads and writes knowledge bases as TOML.
//
//	base = "reference"   # optional: start from the built-in table
//
//	[emotions.happiness]
//	fob = ["m"]
//	lcw = ["m", "l"]
//
// Emotions are keyed by name or code, features by code or name, levels by code or
// name. An empty array clears an inherited entry.
package kbfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"dsemotion/domain/core"
	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
	"dsemotion/domain/knowledge"

	"github.com/BurntSushi/toml"
)

const (
	// BaseEmpty starts from a table with no entries.
	BaseEmpty = "empty"
	// BaseReference starts from the built-in reference table.
	BaseReference = "reference"
)

type document struct {
	Base     string                         `toml:"base"`
	Emotions map[string]map[string][]string `toml:"emotions"`
}

// Load reads a knowledge base file.
func Load(path string) (*knowledge.Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	kb, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}

// Decode parses a TOML knowledge base.
func Decode(r io.Reader) (*knowledge.Base, error) {
	var doc document
	meta, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, core.NewKnowledgeBaseError(fmt.Sprintf("failed to parse TOML: %v", err))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, core.NewKnowledgeBaseError("unknown keys: " + strings.Join(keys, ", "))
	}

	table := knowledge.Table{}
	switch strings.ToLower(strings.TrimSpace(doc.Base)) {
	case "", BaseEmpty:
	case BaseReference:
		table = knowledge.Default().Table()
	default:
		return nil, core.NewKnowledgeBaseError(fmt.Sprintf("unknown base %q (want %s or %s)", doc.Base, BaseEmpty, BaseReference))
	}

	for emotionKey, row := range doc.Emotions {
		e, err := emotion.Parse(emotionKey)
		if err != nil {
			return nil, core.NewKnowledgeBaseError(err.Error())
		}
		if table[e] == nil {
			table[e] = make(map[feature.Feature][]feature.Level, len(row))
		}
		for featureKey, codes := range row {
			f, err := feature.Parse(featureKey)
			if err != nil {
				return nil, core.NewKnowledgeBaseError(fmt.Sprintf("%s: %v", e, err))
			}
			levels := make([]feature.Level, 0, len(codes))
			for _, code := range codes {
				l, err := feature.ParseLevel(code)
				if err != nil {
					return nil, core.NewKnowledgeBaseError(fmt.Sprintf("%s/%s: %v", e, f.Code(), err))
				}
				levels = append(levels, l)
			}
			table[e][f] = levels
		}
	}
	return knowledge.New(table)
}

// Encode writes kb as a self-contained TOML document (no base).
func Encode(w io.Writer, kb *knowledge.Base) error {
	doc := document{Base: BaseEmpty, Emotions: make(map[string]map[string][]string, emotion.Count)}
	for _, e := range emotion.All {
		row := make(map[string][]string)
		for _, f := range feature.All {
			if codes := kb.Levels(e, f).Codes(); len(codes) > 0 {
				row[f.Code()] = codes
			}
		}
		doc.Emotions[e.String()] = row
	}
	if _, err := fmt.Fprintf(w, "# knowledge base %s\n", kb.Fingerprint().Short()); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(doc)
}
