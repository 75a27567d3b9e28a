// Package discretize maps raw facial measurements onto small/medium/large levels
// using the global range of each feature over a whole batch.
package discretize

import (
	"fmt"

	"dsemotion/domain/core"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
	"dsemotion/internal"

	"github.com/montanaflynn/stats"
)

// Config controls discretization.
type Config struct {
	// StrictRanges rejects batches where a feature never varies. When false, such a
	// feature maps every frame to Large.
	StrictRanges bool
}

// Discretizer is stateless across batches; it only holds configuration.
type Discretizer struct {
	config Config
	logger *internal.Logger
}

// New creates a discretizer. A nil logger uses the default logger.
func New(config Config, logger *internal.Logger) *Discretizer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Discretizer{config: config, logger: logger.WithComponent("Discretizer")}
}

// Run computes the global ranges and discretizes every frame with them.
func (d *Discretizer) Run(frames []frame.Frame) ([]frame.Discretized, frame.Ranges, error) {
	ranges, err := d.ComputeRanges(frames)
	if err != nil {
		return nil, frame.Ranges{}, err
	}
	return Discretize(frames, ranges), ranges, nil
}

// ComputeRanges validates the batch and measures min, max and step per feature.
func (d *Discretizer) ComputeRanges(frames []frame.Frame) (frame.Ranges, error) {
	var ranges frame.Ranges
	if len(frames) == 0 {
		return ranges, core.ErrEmptyBatch
	}
	for _, f := range frames {
		if err := f.Validate(); err != nil {
			return ranges, err
		}
	}

	column := make([]float64, len(frames))
	for _, ft := range feature.All {
		for i, f := range frames {
			column[i] = f.Values[ft]
		}
		r, err := measure(ft, column)
		if err != nil {
			return ranges, fmt.Errorf("measure %s: %w", ft.Code(), err)
		}
		if r.Degenerate {
			if d.config.StrictRanges {
				return ranges, core.NewDegenerateRangeError(ft.Code(), r.Min)
			}
			d.logger.Debug("%s never varies (%g); every frame maps to large", ft.Code(), r.Min)
		}
		ranges[ft] = r
	}
	return ranges, nil
}

func measure(ft feature.Feature, column []float64) (frame.Range, error) {
	min, err := stats.Min(column)
	if err != nil {
		return frame.Range{}, err
	}
	max, err := stats.Max(column)
	if err != nil {
		return frame.Range{}, err
	}
	mean, err := stats.Mean(column)
	if err != nil {
		return frame.Range{}, err
	}
	stdDev, err := stats.StandardDeviation(column)
	if err != nil {
		return frame.Range{}, err
	}
	return frame.Range{
		Feature:    ft,
		Min:        min,
		Max:        max,
		Step:       (max - min) / 3,
		Mean:       mean,
		StdDev:     stdDev,
		Degenerate: max == min,
	}, nil
}

// Discretize maps every frame with precomputed ranges. Frames must already be valid.
func Discretize(frames []frame.Frame, ranges frame.Ranges) []frame.Discretized {
	out := make([]frame.Discretized, len(frames))
	for i, f := range frames {
		levels := make(map[feature.Feature]feature.Level, feature.Count)
		for _, ft := range feature.All {
			levels[ft] = ranges[ft].Level(f.Values[ft])
		}
		out[i] = frame.Discretized{Timestamp: f.Timestamp, Levels: levels}
	}
	return out
}
