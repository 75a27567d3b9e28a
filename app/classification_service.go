package app

import (
	"context"
	"fmt"

	"dsemotion/domain/core"
	"dsemotion/domain/frame"
	"dsemotion/domain/knowledge"
	"dsemotion/domain/run"
	"dsemotion/internal"
	"dsemotion/internal/engine"
	"dsemotion/internal/errors"
	"dsemotion/ports"
)

// ClassificationService loads frames, classifies them and stores the run.
type ClassificationService struct {
	engine *engine.Engine
	runs   ports.RunRepository
	logger *internal.Logger
}

// NewClassificationService wires the engine to a run repository. A nil repository
// disables persistence; GetRun and ListRuns then report not found and empty.
func NewClassificationService(e *engine.Engine, runs ports.RunRepository, logger *internal.Logger) *ClassificationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ClassificationService{
		engine: e,
		runs:   runs,
		logger: logger.WithComponent("ClassificationService"),
	}
}

// KnowledgeBase returns the table the engine classifies with
func (s *ClassificationService) KnowledgeBase() *knowledge.Base {
	return s.engine.KnowledgeBase()
}

// Classify loads every frame from source and classifies the batch
func (s *ClassificationService) Classify(ctx context.Context, source ports.FrameSource) (*run.Run, error) {
	frames, err := source.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load frames from %s", source.Name())
	}
	return s.ClassifyFrames(ctx, source.Name(), frames)
}

// ClassifyFrames classifies an in-memory batch and stores the resulting run
func (s *ClassificationService) ClassifyFrames(ctx context.Context, name string, frames []frame.Frame) (*run.Run, error) {
	s.logger.Info("Classifying %d frames from %s", len(frames), name)

	r, err := s.engine.Classify(ctx, name, frames)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to classify %s", name)
	}

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, r); err != nil {
			return nil, errors.DatabaseError(fmt.Sprintf("failed to store run %s", r.ID), err)
		}
		s.logger.Debug("Stored run %s", r.ID)
	}
	return r, nil
}

// GetRun retrieves a stored run
func (s *ClassificationService) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	if s.runs == nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %s", core.ErrRunNotFound, id), "runs are not stored")
	}
	r, err := s.runs.GetRun(ctx, id)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, errors.Wrapf(err, "run %s", id)
		}
		return nil, errors.DatabaseError(fmt.Sprintf("failed to load run %s", id), err)
	}
	return r, nil
}

// ListRuns lists stored runs, newest first
func (s *ClassificationService) ListRuns(ctx context.Context, filters ports.RunFilters) ([]run.Summary, error) {
	if filters.Limit < 0 || filters.Offset < 0 {
		return nil, errors.ValidationError("limit and offset cannot be negative")
	}
	if s.runs == nil {
		return []run.Summary{}, nil
	}
	summaries, err := s.runs.ListRuns(ctx, filters)
	if err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}
	return summaries, nil
}
