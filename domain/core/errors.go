package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Preprocessing errors abort the whole batch
	ErrInvalidFrame    = errors.New("invalid frame")
	ErrEmptyBatch      = fmt.Errorf("%w: empty batch", ErrInvalidFrame)
	ErrDegenerateRange = errors.New("degenerate feature range")

	// Fusion errors are scoped to a single frame
	ErrFusionConflict = errors.New("total conflict between evidence sources")
	ErrNoEvidence     = errors.New("no evidence to fuse")

	// Knowledge base errors
	ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")

	// Lookup errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// Error constructors with context
func NewInvalidFrameError(timestamp int64, reason string) error {
	return fmt.Errorf("%w at %ds: %s", ErrInvalidFrame, timestamp, reason)
}

func NewInvalidRowError(row int, reason string) error {
	return fmt.Errorf("%w in row %d: %s", ErrInvalidFrame, row, reason)
}

func NewDegenerateRangeError(feature string, value float64) error {
	return fmt.Errorf("%w for %s: every frame measured %g", ErrDegenerateRange, feature, value)
}

func NewFusionConflictError(feature string, conflict float64) error {
	return fmt.Errorf("%w while fusing %s (K=%g)", ErrFusionConflict, feature, conflict)
}

func NewKnowledgeBaseError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidKnowledgeBase, reason)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPreprocessingError reports errors that invalidate the whole batch.
func IsPreprocessingError(err error) bool {
	return errors.Is(err, ErrInvalidFrame) ||
		errors.Is(err, ErrDegenerateRange)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrFusionConflict)
}

func IsKnowledgeBaseError(err error) bool {
	return errors.Is(err, ErrInvalidKnowledgeBase)
}
