package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dsemotion/domain/core"
	"dsemotion/domain/run"
	"dsemotion/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements ports.RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// runRow mirrors a classification_runs row.
type runRow struct {
	ID            string        `db:"id"`
	Source        string        `db:"source"`
	Fingerprint   string        `db:"fingerprint"`
	KnowledgeBase string        `db:"knowledge_base"`
	InputHash     string        `db:"input_hash"`
	EvidenceMass  float64       `db:"evidence_mass"`
	StrictRanges  bool          `db:"strict_ranges"`
	CodeVersion   string        `db:"code_version"`
	Workers       int           `db:"workers"`
	ElapsedNS     int64         `db:"elapsed_ns"`
	Frames        int           `db:"frames"`
	Conflicts     int           `db:"conflicts"`
	Ranges        rangesColumn  `db:"ranges"`
	Results       resultsColumn `db:"results"`
	CreatedAt     time.Time     `db:"created_at"`
}

type summaryRow struct {
	ID          string    `db:"id"`
	Source      string    `db:"source"`
	Fingerprint string    `db:"fingerprint"`
	Frames      int       `db:"frames"`
	Conflicts   int       `db:"conflicts"`
	CreatedAt   time.Time `db:"created_at"`
}

func toRow(r *run.Run) runRow {
	return runRow{
		ID:            r.ID.String(),
		Source:        r.Source,
		Fingerprint:   r.Fingerprint.Fingerprint.String(),
		KnowledgeBase: r.Fingerprint.KnowledgeBase.String(),
		InputHash:     r.Fingerprint.Input.String(),
		EvidenceMass:  r.Fingerprint.EvidenceMass,
		StrictRanges:  r.Fingerprint.StrictRanges,
		CodeVersion:   r.Fingerprint.CodeVersion,
		Workers:       r.Workers,
		ElapsedNS:     int64(r.Elapsed),
		Frames:        len(r.Results),
		Conflicts:     len(r.Failures()),
		Ranges:        rangesColumn{V: r.Ranges},
		Results:       resultsColumn{V: r.Results},
		CreatedAt:     r.CreatedAt.Time(),
	}
}

func (row runRow) toRun() *run.Run {
	return &run.Run{
		ID:     core.RunID(row.ID),
		Source: row.Source,
		Fingerprint: run.Fingerprint{
			KnowledgeBase: core.Hash(row.KnowledgeBase),
			Input:         core.Hash(row.InputHash),
			EvidenceMass:  row.EvidenceMass,
			StrictRanges:  row.StrictRanges,
			CodeVersion:   row.CodeVersion,
			Fingerprint:   core.Hash(row.Fingerprint),
		},
		Ranges:    row.Ranges.V,
		Results:   row.Results.V,
		Workers:   row.Workers,
		Elapsed:   time.Duration(row.ElapsedNS),
		CreatedAt: core.NewTimestamp(row.CreatedAt),
	}
}

// SaveRun stores the run and its labels in one transaction
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, rn *run.Run) error {
	if rn == nil {
		return fmt.Errorf("cannot save a nil run")
	}
	if err := rn.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO classification_runs (
			id, source, fingerprint, knowledge_base, input_hash, evidence_mass, strict_ranges,
			code_version, workers, elapsed_ns, frames, conflicts, ranges, results, created_at
		) VALUES (
			:id, :source, :fingerprint, :knowledge_base, :input_hash, :evidence_mass, :strict_ranges,
			:code_version, :workers, :elapsed_ns, :frames, :conflicts, :ranges, :results, :created_at
		)`, toRow(rn))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rn.ID, err)
	}

	winners := labelWinners(rn.Results)
	for i, res := range rn.Results {
		// Only the last labeled frame of a repeated timestamp is stored.
		if !res.Labeled() || winners[res.Timestamp] != i {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_labels (run_id, sec, emotion, plausibility)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (run_id, sec) DO UPDATE SET emotion = EXCLUDED.emotion, plausibility = EXCLUDED.plausibility
		`, rn.ID.String(), res.Timestamp, res.Emotion.Code(), res.Plausibility[*res.Emotion])
		if err != nil {
			return fmt.Errorf("failed to insert label for %ds: %w", res.Timestamp, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, source, fingerprint, knowledge_base, input_hash, evidence_mass, strict_ranges,
		       code_version, workers, elapsed_ns, frames, conflicts, ranges, results, created_at
		FROM classification_runs
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toRun(), nil
}

// ListRuns lists run summaries, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, filters ports.RunFilters) ([]run.Summary, error) {
	query, args := listRunsQuery(filters)

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	summaries := make([]run.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, run.Summary{
			ID:          core.RunID(row.ID),
			Source:      row.Source,
			Fingerprint: core.Hash(row.Fingerprint),
			Frames:      row.Frames,
			Conflicts:   row.Conflicts,
			CreatedAt:   core.NewTimestamp(row.CreatedAt),
		})
	}
	return summaries, nil
}

func listRunsQuery(filters ports.RunFilters) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if filters.Fingerprint != nil {
		args = append(args, filters.Fingerprint.String())
		where = append(where, fmt.Sprintf("fingerprint = $%d", len(args)))
	}
	if filters.Source != "" {
		args = append(args, filters.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}

	query := `SELECT id, source, fingerprint, frames, conflicts, created_at FROM classification_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	args = append(args, filters.EffectiveLimit(), max(filters.Offset, 0))
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}

// labelWinners maps each labeled timestamp to the index of its last labeled frame.
func labelWinners(results []run.FrameResult) map[int64]int {
	winners := make(map[int64]int, len(results))
	for i, res := range results {
		if res.Labeled() {
			winners[res.Timestamp] = i
		}
	}
	return winners
}
