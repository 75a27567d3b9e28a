package run

import (
	"fmt"
	"sort"
	"time"

	"dsemotion/domain/core"
	"dsemotion/domain/emotion"
	"dsemotion/domain/evidence"
	"dsemotion/domain/frame"
)

// Status of a single frame's classification.
type Status string

const (
	StatusOK       Status = "ok"
	StatusConflict Status = "conflict"
)

// FrameResult is the classification of one frame.
type FrameResult struct {
	Timestamp int64  `json:"sec"`
	Pattern   string `json:"pattern"`
	Status    Status `json:"status"`

	// Emotion is nil when the frame could not be labeled.
	Emotion      *emotion.Emotion      `json:"emotion,omitempty"`
	Plausibility evidence.Scores       `json:"plausibility,omitempty"`
	Belief       evidence.Scores       `json:"belief,omitempty"`
	Mass         evidence.MassFunction `json:"mass,omitempty"`
	Steps        []evidence.Step       `json:"steps,omitempty"`
	MaxConflict  float64               `json:"max_conflict"`
	Error        string                `json:"error,omitempty"`
}

// Labeled reports whether the frame received an emotion.
func (r FrameResult) Labeled() bool {
	return r.Status == StatusOK && r.Emotion != nil
}

// Run is one classified batch.
type Run struct {
	ID          core.RunID     `json:"id"`
	Source      string         `json:"source"`
	Fingerprint Fingerprint    `json:"fingerprint"`
	Ranges      frame.Ranges   `json:"ranges"`
	Results     []FrameResult  `json:"results"`
	Workers     int            `json:"workers"`
	Elapsed     time.Duration  `json:"elapsed_ns"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// Labels maps each labeled frame's timestamp to its emotion. Results are in input
// order, so a repeated timestamp keeps the label of its last frame.
func (r *Run) Labels() map[int64]emotion.Emotion {
	labels := make(map[int64]emotion.Emotion, len(r.Results))
	for _, res := range r.Results {
		if res.Labeled() {
			labels[res.Timestamp] = *res.Emotion
		}
	}
	return labels
}

// Failures returns the frames that could not be labeled.
func (r *Run) Failures() []FrameResult {
	var out []FrameResult
	for _, res := range r.Results {
		if !res.Labeled() {
			out = append(out, res)
		}
	}
	return out
}

// Counts tallies labels per emotion over every labeled frame.
func (r *Run) Counts() map[emotion.Emotion]int {
	counts := make(map[emotion.Emotion]int, emotion.Count)
	for _, res := range r.Results {
		if res.Labeled() {
			counts[*res.Emotion]++
		}
	}
	return counts
}

// Timestamps returns the distinct labeled timestamps in ascending order.
func (r *Run) Timestamps() []int64 {
	labels := r.Labels()
	out := make([]int64, 0, len(labels))
	for ts := range labels {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Summary is the listing view of a run.
type Summary struct {
	ID          core.RunID     `json:"id"`
	Source      string         `json:"source"`
	Fingerprint core.Hash      `json:"fingerprint"`
	Frames      int            `json:"frames"`
	Conflicts   int            `json:"conflicts"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// Summarize builds the listing view.
func (r *Run) Summarize() Summary {
	return Summary{
		ID:          r.ID,
		Source:      r.Source,
		Fingerprint: r.Fingerprint.Fingerprint,
		Frames:      len(r.Results),
		Conflicts:   len(r.Failures()),
		CreatedAt:   r.CreatedAt,
	}
}

// Validate checks if the run is complete
func (r *Run) Validate() error {
	if core.ID(r.ID).IsEmpty() {
		return fmt.Errorf("run: id cannot be empty")
	}
	if len(r.Results) == 0 {
		return fmt.Errorf("run %s: no results", r.ID)
	}
	for i, res := range r.Results {
		switch res.Status {
		case StatusOK:
			if res.Emotion == nil {
				return fmt.Errorf("run %s: result %d is ok but has no emotion", r.ID, i)
			}
		case StatusConflict:
		default:
			return fmt.Errorf("run %s: result %d has unknown status %q", r.ID, i, res.Status)
		}
	}
	return r.Fingerprint.Validate()
}
