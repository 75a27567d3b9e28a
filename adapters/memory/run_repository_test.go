package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"dsemotion/domain/core"
	"dsemotion/domain/emotion"
	"dsemotion/domain/evidence"
	"dsemotion/domain/feature"
	"dsemotion/domain/run"
	"dsemotion/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(source string, input core.Hash) *run.Run {
	e := emotion.Happiness
	return &run.Run{
		ID:          core.NewRunID(),
		Source:      source,
		Fingerprint: run.NewFingerprint("kb", input, 0.8, false, run.CodeVersion),
		Results:     []run.FrameResult{{Timestamp: 1, Status: run.StatusOK, Emotion: &e}},
		CreatedAt:   core.Now(),
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()
	r := newRun("a.csv", "in")

	require.NoError(t, repo.SaveRun(ctx, r))
	assert.Error(t, repo.SaveRun(ctx, r), "runs are immutable")

	got, err := repo.GetRun(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Labels(), got.Labels())

	// Mutating the caller's copy does not touch the stored run.
	r.Results[0].Status = run.StatusConflict
	got, err = repo.GetRun(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, run.StatusOK, got.Results[0].Status)

	_, err = repo.GetRun(ctx, core.NewRunID())
	assert.ErrorIs(t, err, core.ErrRunNotFound)
	assert.True(t, core.IsNotFoundError(err))
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()
	r := newRun("a.csv", "in")
	r.Results[0].Plausibility = evidence.Scores{emotion.Happiness: 1, emotion.Fear: 0.2}
	r.Results[0].Belief = evidence.Scores{emotion.Happiness: 0.9}
	r.Results[0].Mass = evidence.MassFunction{emotion.Omega: 1}
	r.Results[0].Steps = []evidence.Step{{Feature: feature.LeftEyeAperture, Conflict: 0.1}}
	require.NoError(t, repo.SaveRun(ctx, r))

	// Mutating the saved argument after the fact.
	*r.Results[0].Emotion = emotion.Disgust
	r.Results[0].Plausibility[emotion.Happiness] = 0

	got, err := repo.GetRun(ctx, r.ID)
	require.NoError(t, err)
	got.Results[0].Timestamp = 999
	*got.Results[0].Emotion = emotion.Fear
	got.Results[0].Plausibility[emotion.Fear] = 1
	got.Results[0].Belief[emotion.Happiness] = 0
	got.Results[0].Mass[emotion.Empty] = 0.5
	got.Results[0].Steps[0].Conflict = 1

	again, err := repo.GetRun(ctx, r.ID)
	require.NoError(t, err)
	res := again.Results[0]
	assert.Equal(t, int64(1), res.Timestamp)
	assert.Equal(t, emotion.Happiness, *res.Emotion)
	assert.Equal(t, evidence.Scores{emotion.Happiness: 1, emotion.Fear: 0.2}, res.Plausibility)
	assert.Equal(t, evidence.Scores{emotion.Happiness: 0.9}, res.Belief)
	assert.Equal(t, evidence.MassFunction{emotion.Omega: 1}, res.Mass)
	assert.Equal(t, 0.1, res.Steps[0].Conflict)
}

func TestListNewestFirstWithFilters(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	var ids []core.RunID
	for i := 0; i < 5; i++ {
		source := "a.csv"
		if i%2 == 1 {
			source = "b.csv"
		}
		r := newRun(source, core.Hash(fmt.Sprintf("in-%d", i)))
		require.NoError(t, repo.SaveRun(ctx, r))
		ids = append(ids, r.ID)
	}

	all, err := repo.ListRuns(ctx, ports.RunFilters{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, ids[4], all[0].ID)
	assert.Equal(t, ids[0], all[4].ID)

	page, err := repo.ListRuns(ctx, ports.RunFilters{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	bOnly, err := repo.ListRuns(ctx, ports.RunFilters{Source: "b.csv"})
	require.NoError(t, err)
	assert.Len(t, bOnly, 2)

	fp := run.NewFingerprint("kb", "in-2", 0.8, false, run.CodeVersion).Fingerprint
	byFingerprint, err := repo.ListRuns(ctx, ports.RunFilters{Fingerprint: &fp})
	require.NoError(t, err)
	require.Len(t, byFingerprint, 1)
	assert.Equal(t, ids[2], byFingerprint[0].ID)
}

func TestConcurrentSaves(t *testing.T) {
	repo := NewRunRepository()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.SaveRun(context.Background(), newRun("c.csv", "in")))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, repo.Len())
}
