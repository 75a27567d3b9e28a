package testkit

import (
	"fmt"
	"math/rand"

	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
	"dsemotion/domain/knowledge"
)

// FrameGeneratorConfig configures the synthetic frame generator
type FrameGeneratorConfig struct {
	FrameCount  int               `json:"frame_count"`
	Emotions    []emotion.Emotion `json:"emotions"` // cycled frame by frame
	Noise       float64           `json:"noise"`    // max offset from the band center, below 0.5
	StartSecond int64             `json:"start_second"`
	Seed        int64             `json:"seed"`
}

// DefaultFrameConfig returns sensible defaults for frame generation
func DefaultFrameConfig() FrameGeneratorConfig {
	return FrameGeneratorConfig{
		FrameCount: 120,
		Emotions:   append([]emotion.Emotion(nil), emotion.All[:]...),
		Noise:      0.3,
		Seed:       42,
	}
}

// Sample records what the generator intended for one frame.
type Sample struct {
	Timestamp int64
	Emotion   emotion.Emotion
	Levels    [feature.Count]feature.Level
}

// Batch is a generated batch. The first two frames are the scale anchors and have no
// sample.
type Batch struct {
	Frames  []frame.Frame
	Samples []Sample
}

// FrameGenerator produces frames shaped after the knowledge base entries of an emotion.
type FrameGenerator struct {
	config FrameGeneratorConfig
	kb     *knowledge.Base
	rng    *rand.Rand
}

// NewFrameGenerator creates a new generator. A nil kb uses the reference knowledge base.
func NewFrameGenerator(config FrameGeneratorConfig, kb *knowledge.Base) (*FrameGenerator, error) {
	if config.FrameCount < 0 {
		return nil, fmt.Errorf("frame count must not be negative, got %d", config.FrameCount)
	}
	if len(config.Emotions) == 0 {
		return nil, fmt.Errorf("at least one emotion is required")
	}
	if config.Noise < 0 || config.Noise >= 0.5 {
		return nil, fmt.Errorf("noise must lie in [0, 0.5), got %g", config.Noise)
	}
	if kb == nil {
		kb = knowledge.Default()
	}
	return &FrameGenerator{
		config: config,
		kb:     kb,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// Generate produces the anchors followed by FrameCount frames one second apart.
func (g *FrameGenerator) Generate() Batch {
	ts := g.config.StartSecond
	batch := Batch{
		Frames:  append(make([]frame.Frame, 0, g.config.FrameCount+2), Anchors(ts, ts+1)...),
		Samples: make([]Sample, 0, g.config.FrameCount),
	}
	ts += 2

	for i := 0; i < g.config.FrameCount; i++ {
		e := g.config.Emotions[i%len(g.config.Emotions)]
		s := Sample{Timestamp: ts, Emotion: e}

		var values [feature.Count]float64
		for j, ft := range feature.All {
			s.Levels[j] = g.pickLevel(e, ft)
			values[j] = BandCenter[s.Levels[j]] + (g.rng.Float64()*2-1)*g.config.Noise
		}
		batch.Frames = append(batch.Frames, frame.New(ts, values))
		batch.Samples = append(batch.Samples, s)
		ts++
	}
	return batch
}

// pickLevel draws one of the levels the knowledge base lists for (e, ft). Features the
// emotion says nothing about get a uniformly random level.
func (g *FrameGenerator) pickLevel(e emotion.Emotion, ft feature.Feature) feature.Level {
	candidates := g.kb.Levels(e, ft).Levels()
	if len(candidates) == 0 {
		candidates = feature.Levels[:]
	}
	return candidates[g.rng.Intn(len(candidates))]
}
