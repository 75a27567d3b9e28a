package ports

import (
	"context"

	"dsemotion/domain/frame"
)

// FrameSource provides a fully materialized batch of frames.
// Classification never starts before Load returns the whole batch.
type FrameSource interface {
	// Name identifies the source in logs and on stored runs.
	Name() string
	Load(ctx context.Context) ([]frame.Frame, error)
}

// StaticSource serves frames already in memory.
type StaticSource struct {
	Label  string
	Frames []frame.Frame
}

func (s StaticSource) Name() string { return s.Label }

func (s StaticSource) Load(ctx context.Context) ([]frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Frames, nil
}
