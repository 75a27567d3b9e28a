package testkit

import (
	"testing"

	"dsemotion/domain/emotion"
	"dsemotion/domain/feature"
	"dsemotion/internal"
	"dsemotion/internal/discretize"
)

func TestFrameGenerator_Basic(t *testing.T) {
	config := DefaultFrameConfig()
	config.FrameCount = 25
	config.StartSecond = 100

	generator, err := NewFrameGenerator(config, nil)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	batch := generator.Generate()

	if len(batch.Frames) != 27 {
		t.Fatalf("Expected 27 frames (25 + 2 anchors), got %d", len(batch.Frames))
	}
	if len(batch.Samples) != 25 {
		t.Fatalf("Expected 25 samples, got %d", len(batch.Samples))
	}
	for i, f := range batch.Frames {
		if err := f.Validate(); err != nil {
			t.Errorf("Frame %d is invalid: %v", i, err)
		}
		if f.Timestamp != 100+int64(i) {
			t.Errorf("Frame %d has timestamp %d", i, f.Timestamp)
		}
	}
	for i, s := range batch.Samples {
		if want := emotion.All[i%emotion.Count]; s.Emotion != want {
			t.Errorf("Sample %d: expected emotion %s, got %s", i, want, s.Emotion)
		}
	}
}

func TestFrameGenerator_Deterministic(t *testing.T) {
	config := DefaultFrameConfig()
	config.FrameCount = 10

	g1, _ := NewFrameGenerator(config, nil)
	g2, _ := NewFrameGenerator(config, nil)
	a, b := g1.Generate(), g2.Generate()

	for i := range a.Frames {
		for _, ft := range feature.All {
			if a.Frames[i].Values[ft] != b.Frames[i].Values[ft] {
				t.Fatalf("Frame %d feature %s differs between runs with the same seed", i, ft.Code())
			}
		}
	}
}

func TestFrameGenerator_LevelsSurviveDiscretization(t *testing.T) {
	config := DefaultFrameConfig()
	config.FrameCount = 60
	config.Seed = 7

	generator, err := NewFrameGenerator(config, nil)
	if err != nil {
		t.Fatal(err)
	}
	batch := generator.Generate()

	d := discretize.New(discretize.Config{StrictRanges: true}, internal.NewLogger(internal.LogLevelError))
	out, ranges, err := d.Run(batch.Frames)
	if err != nil {
		t.Fatalf("Discretization failed: %v", err)
	}
	for _, ft := range feature.All {
		if ranges[ft].Min != ScaleMin || ranges[ft].Max != ScaleMax {
			t.Errorf("Feature %s range [%g, %g], expected anchors to pin [0, 3]", ft.Code(), ranges[ft].Min, ranges[ft].Max)
		}
	}
	for i, s := range batch.Samples {
		got := out[i+2]
		for j, ft := range feature.All {
			if got.Levels[ft] != s.Levels[j] {
				t.Errorf("Sample %d feature %s: intended %s, discretized %s",
					i, ft.Code(), s.Levels[j].Code(), got.Levels[ft].Code())
			}
		}
	}
}

func TestFrameGenerator_RejectsBadConfig(t *testing.T) {
	bad := []FrameGeneratorConfig{
		{FrameCount: -1, Emotions: []emotion.Emotion{emotion.Fear}},
		{FrameCount: 1},
		{FrameCount: 1, Emotions: []emotion.Emotion{emotion.Fear}, Noise: 0.5},
	}
	for i, config := range bad {
		if _, err := NewFrameGenerator(config, nil); err == nil {
			t.Errorf("Config %d: expected an error", i)
		}
	}
}

func TestReferenceBatchPatterns(t *testing.T) {
	frames, want := ReferenceBatch()
	if len(frames) != len(want) {
		t.Fatalf("Expected one label per frame, got %d frames and %d labels", len(frames), len(want))
	}

	d := discretize.New(discretize.Config{}, internal.NewLogger(internal.LogLevelError))
	out, _, err := d.Run(frames)
	if err != nil {
		t.Fatal(err)
	}
	patterns := map[int64]string{
		0: "s s s s s s s s s s",
		1: "l l l l l l l l l l",
		2: "m l l l l s m l l s",
		3: "m m m m m m m m m m",
		4: "s m m m m s s s s m",
	}
	for _, df := range out {
		if got := df.Pattern(); got != patterns[df.Timestamp] {
			t.Errorf("Frame %ds: pattern %q, expected %q", df.Timestamp, got, patterns[df.Timestamp])
		}
	}
}
