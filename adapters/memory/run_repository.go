// Package memory keeps runs in process memory. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"dsemotion/domain/core"
	"dsemotion/domain/evidence"
	"dsemotion/domain/run"
	"dsemotion/ports"
)

// RunRepository implements ports.RunRepository with in-memory storage
type RunRepository struct {
	runs  map[core.RunID]*run.Run
	order []core.RunID // insertion order
	mu    sync.RWMutex
}

var _ ports.RunRepository = (*RunRepository)(nil)

func NewRunRepository() *RunRepository {
	return &RunRepository{runs: make(map[core.RunID]*run.Run)}
}

func (s *RunRepository) SaveRun(ctx context.Context, r *run.Run) error {
	if r == nil || core.ID(r.ID).IsEmpty() {
		return fmt.Errorf("cannot save a run without an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.ID]; exists {
		return fmt.Errorf("run %s already stored", r.ID)
	}
	s.runs[r.ID] = cloneRun(r)
	s.order = append(s.order, r.ID)
	return nil
}

func (s *RunRepository) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.runs[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	return cloneRun(r), nil
}

// cloneRun copies r down to the per-frame maps so stored runs share nothing with callers.
func cloneRun(r *run.Run) *run.Run {
	out := *r
	out.Results = make([]run.FrameResult, len(r.Results))
	for i, res := range r.Results {
		if res.Emotion != nil {
			e := *res.Emotion
			res.Emotion = &e
		}
		res.Plausibility = cloneScores(res.Plausibility)
		res.Belief = cloneScores(res.Belief)
		if res.Mass != nil {
			res.Mass = res.Mass.Clone()
		}
		if res.Steps != nil {
			res.Steps = append(make([]evidence.Step, 0, len(res.Steps)), res.Steps...)
		}
		out.Results[i] = res
	}
	return &out
}

func cloneScores(s evidence.Scores) evidence.Scores {
	if s == nil {
		return nil
	}
	out := make(evidence.Scores, len(s))
	for e, v := range s {
		out[e] = v
	}
	return out
}

func (s *RunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]run.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filters.EffectiveLimit()
	results := make([]run.Summary, 0, min(limit, len(s.order)))
	skipped := 0

	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.runs[s.order[i]]

		// Apply filters
		if filters.Fingerprint != nil && r.Fingerprint.Fingerprint != *filters.Fingerprint {
			continue
		}
		if filters.Source != "" && r.Source != filters.Source {
			continue
		}
		if skipped < filters.Offset {
			skipped++
			continue
		}

		results = append(results, r.Summarize())
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

// Len returns the number of stored runs.
func (s *RunRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
