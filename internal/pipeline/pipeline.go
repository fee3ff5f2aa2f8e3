// Package pipeline implements the incremental enrichment pipeline: URL
// normalization, external information extraction, vertical classification,
// and quality repair, run in fixed order over one dataset.
//
// Progress is a pure function of the data itself: a row's enrichment field is
// skipped when it already holds any value (the N/A sentinel included), and
// the dataset file is rewritten after every enriched row. Interrupting a run
// at any point loses at most the in-flight row.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Store is the persistence substrate the runner and stages write through.
type Store interface {
	Load() (*model.Dataset, error)
	Save(ds *model.Dataset) error
}

// Stage is one pass over the dataset. Reads and Writes declare the column
// contract the runner's ordering assertion checks: a stage may only read base
// columns or columns written by an earlier stage.
type Stage interface {
	Name() string
	Reads() []string
	Writes() []string
	Run(ctx context.Context, ds *model.Dataset) error
}

// Runner executes the stages in their fixed order against one dataset loaded
// once at the start. There is no rollback: every stage's skip predicate is
// self-contained, so restarting the whole runner after a failure resumes
// where the interrupted stage left off.
type Runner struct {
	store  Store
	stages []Stage
}

// NewRunner creates a Runner. The stage order is validated on the first Run.
func NewRunner(store Store, stages ...Stage) *Runner {
	return &Runner{store: store, stages: stages}
}

// Run loads the dataset and executes all stages in order. Only storage
// errors and stage-ordering violations abort the run; per-row lookup
// failures are absorbed by the stages as sentinel values.
func (r *Runner) Run(ctx context.Context) error {
	if err := validateOrder(r.stages); err != nil {
		return err
	}

	ds, err := r.store.Load()
	if err != nil {
		return eris.Wrap(err, "pipeline: load dataset")
	}

	log := zap.L()
	log.Info("pipeline: starting run",
		zap.Int("rows", len(ds.Records)),
		zap.Int("stages", len(r.stages)),
	)

	for _, stage := range r.stages {
		start := time.Now()
		if err := stage.Run(ctx, ds); err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", stage.Name()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return eris.Wrapf(err, "pipeline: stage %s", stage.Name())
		}
		log.Info("pipeline: stage complete",
			zap.String("stage", stage.Name()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	log.Info("pipeline: run complete", zap.Int("rows", len(ds.Records)))
	return nil
}

// validateOrder asserts that every stage only reads columns that are part of
// the base schema or written by an earlier stage. The stage list is fixed at
// four, so a startup assertion replaces a runtime dependency graph.
func validateOrder(stages []Stage) error {
	available := make(map[string]bool)
	for _, col := range model.BaseColumns() {
		available[col] = true
	}

	for _, stage := range stages {
		for _, col := range stage.Reads() {
			if !available[col] {
				return eris.Errorf("pipeline: stage %s reads column %q before any stage writes it", stage.Name(), col)
			}
		}
		for _, col := range stage.Writes() {
			available[col] = true
		}
	}
	return nil
}
