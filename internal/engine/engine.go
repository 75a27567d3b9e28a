// Package engine classifies a batch of frames: one discretization pass over the whole
// batch, then per-frame evidence fusion on a bounded pool of goroutines.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"dsemotion/domain/core"
	"dsemotion/domain/evidence"
	"dsemotion/domain/frame"
	"dsemotion/domain/knowledge"
	"dsemotion/domain/run"
	"dsemotion/internal"
	"dsemotion/internal/discretize"

	"golang.org/x/sync/errgroup"
)

// Config tunes a classification engine.
type Config struct {
	// Workers bounds the number of frames fused concurrently. Zero means GOMAXPROCS.
	Workers      int
	EvidenceMass float64
	StrictRanges bool
}

// DefaultConfig returns the settings of the reference classifier.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.GOMAXPROCS(0),
		EvidenceMass: evidence.DefaultEvidenceMass,
	}
}

// Engine is safe for concurrent use; it keeps no state between batches.
type Engine struct {
	kb          *knowledge.Base
	builder     *evidence.Builder
	discretizer *discretize.Discretizer
	config      Config
	logger      *internal.Logger
}

// New creates an engine over kb. A nil kb uses the reference knowledge base.
func New(kb *knowledge.Base, config Config, logger *internal.Logger) (*Engine, error) {
	if kb == nil {
		kb = knowledge.Default()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	builder, err := evidence.NewBuilder(kb, config.EvidenceMass)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &Engine{
		kb:          kb,
		builder:     builder,
		discretizer: discretize.New(discretize.Config{StrictRanges: config.StrictRanges}, logger),
		config:      config,
		logger:      logger.WithComponent("Engine"),
	}, nil
}

// KnowledgeBase returns the table the engine classifies with.
func (e *Engine) KnowledgeBase() *knowledge.Base { return e.kb }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.config }

// Classify labels every frame of a batch. Preprocessing failures (empty batch, invalid
// frame, strict degenerate range) abort the batch. A frame whose evidence is in total
// conflict gets StatusConflict and the batch continues. Results keep input order.
func (e *Engine) Classify(ctx context.Context, source string, frames []frame.Frame) (*run.Run, error) {
	start := time.Now()
	e.logger.Info("Classifying %d frames from %s (workers=%d, evidence mass=%g, kb=%s)",
		len(frames), source, e.config.Workers, e.config.EvidenceMass, e.kb.Fingerprint().Short())

	discretized, ranges, err := e.discretizer.Run(frames)
	if err != nil {
		e.logger.Error("Preprocessing failed: %v", err)
		return nil, err
	}
	if degenerate := ranges.Degenerate(); len(degenerate) > 0 {
		e.logger.Warn("%d feature(s) never vary in this batch and map to large: %v", len(degenerate), degenerate)
	}

	results := make([]run.FrameResult, len(discretized))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.config.Workers, len(discretized)))

	for i := range discretized {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Each goroutine owns results[i].
			res, err := e.ClassifyFrame(discretized[i])
			if err != nil {
				return fmt.Errorf("frame %d (%ds): %w", i, discretized[i].Timestamp, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error("Batch aborted: %v", err)
		return nil, err
	}

	r := &run.Run{
		ID:     core.NewRunID(),
		Source: source,
		Fingerprint: run.NewFingerprint(
			e.kb.Fingerprint(), frame.Digest(frames),
			e.config.EvidenceMass, e.config.StrictRanges, run.CodeVersion,
		),
		Ranges:    ranges,
		Results:   results,
		Workers:   e.config.Workers,
		Elapsed:   time.Since(start),
		CreatedAt: core.Now(),
	}

	if failures := r.Failures(); len(failures) > 0 {
		e.logger.Warn("%d of %d frames in total conflict", len(failures), len(results))
	}
	e.logger.Info("Run %s classified %d frames in %.2fms", r.ID, len(results),
		float64(r.Elapsed.Nanoseconds())/1e6)
	return r, nil
}

// ClassifyFrame builds, fuses and decides a single discretized frame. Total conflict is
// reported on the result; any other failure is returned.
func (e *Engine) ClassifyFrame(df frame.Discretized) (run.FrameResult, error) {
	res := run.FrameResult{Timestamp: df.Timestamp, Pattern: df.Pattern()}

	bpas, err := e.builder.Build(df)
	if err != nil {
		return res, err
	}

	fusion, err := evidence.Fuse(bpas)
	res.Steps = fusion.Steps
	res.MaxConflict = fusion.MaxConflict()
	if core.IsConflictError(err) {
		e.logger.Debug("Frame %ds [%s]: %v", df.Timestamp, res.Pattern, err)
		res.Status = run.StatusConflict
		res.Error = err.Error()
		return res, nil
	}
	if err != nil {
		return res, err
	}

	pl := evidence.Plausibility(fusion.Mass)
	best, score := evidence.Decide(pl)
	e.logger.Trace("Frame %ds [%s]: %s (Pl=%.4f)", df.Timestamp, res.Pattern, best.Code(), score)

	res.Status = run.StatusOK
	res.Emotion = &best
	res.Plausibility = pl
	res.Belief = evidence.Belief(fusion.Mass)
	res.Mass = fusion.Mass
	return res, nil
}
