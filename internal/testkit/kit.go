package testkit

import (
	"context"
	"sync"

	"dsemotion/domain/core"
	"dsemotion/domain/frame"
	"dsemotion/domain/run"
	"dsemotion/ports"
)

// FakeFrameSource serves a fixed batch, or Err when it is set.
type FakeFrameSource struct {
	Label  string
	Frames []frame.Frame
	Err    error

	mu    sync.Mutex
	loads int
}

var _ ports.FrameSource = (*FakeFrameSource)(nil)

func (s *FakeFrameSource) Name() string { return s.Label }

func (s *FakeFrameSource) Load(ctx context.Context) ([]frame.Frame, error) {
	s.mu.Lock()
	s.loads++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]frame.Frame(nil), s.Frames...), nil
}

// Loads returns how often Load was called.
func (s *FakeFrameSource) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// RecordingRunRepository records saved runs without indexing them. Every call fails
// with Err when it is set.
type RecordingRunRepository struct {
	Err error

	mu    sync.Mutex
	saved []*run.Run
}

var _ ports.RunRepository = (*RecordingRunRepository)(nil)

func (r *RecordingRunRepository) SaveRun(ctx context.Context, rn *run.Run) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, rn)
	return nil
}

func (r *RecordingRunRepository) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rn := range r.saved {
		if rn.ID == id {
			return rn, nil
		}
	}
	return nil, core.NewNotFoundError("run", id.String())
}

func (r *RecordingRunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]run.Summary, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]run.Summary, 0, len(r.saved))
	for i := len(r.saved) - 1; i >= 0 && len(out) < filters.EffectiveLimit(); i-- {
		out = append(out, r.saved[i].Summarize())
	}
	return out, nil
}

// Saved returns the runs in the order they were saved.
func (r *RecordingRunRepository) Saved() []*run.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*run.Run(nil), r.saved...)
}
