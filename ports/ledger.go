package ports

import (
	"context"

	"dsemotion/domain/core"
	"dsemotion/domain/run"
)

// RunRepository stores classified runs. Stored runs are immutable.
type RunRepository interface {
	SaveRun(ctx context.Context, r *run.Run) error
	// GetRun returns core.ErrRunNotFound when no run has the id.
	GetRun(ctx context.Context, id core.RunID) (*run.Run, error)
	// ListRuns returns summaries, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]run.Summary, error)
}

// RunFilters for querying runs
type RunFilters struct {
	Fingerprint *core.Hash
	Source      string
	Limit       int
	Offset      int
}

// DefaultRunLimit caps listings that do not set a limit.
const DefaultRunLimit = 50

// EffectiveLimit returns the limit to apply.
func (f RunFilters) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultRunLimit
	}
	return f.Limit
}
