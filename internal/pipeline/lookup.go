package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/dataset"
	"github.com/sells-group/enrich-cli/internal/model"
)

// FetchFunc is the external lookup a LookupStage performs for one record.
type FetchFunc func(ctx context.Context, rec *model.Record) (string, error)

// LookupStage is the generic incremental engine: it visits rows in stored
// order, skips rows whose target field was already attempted, calls the
// external capability for the rest, and persists the whole dataset after
// every mutated row.
//
// A failed call writes the N/A sentinel instead of leaving the field empty,
// which marks the row as attempted: the next run moves past it instead of
// retrying indefinitely. Clearing sentinels back to empty (the reset
// command) is the retry path.
type LookupStage struct {
	name   string
	target model.Field
	input  model.Field
	fetch  FetchFunc
	store  dataset.Saver

	// limit caps mutated rows per run; 0 means no cap. Rows left over stay
	// pending and are picked up by the next run.
	limit int

	// pendingOnEmptyInput distinguishes the two meanings of an empty input
	// column. False (extract): the row has no URL and never will, mark it
	// N/A. True (classify): an empty information field means the extract
	// stage has not reached the row yet, leave it pending. A sentinel input
	// marks the target N/A in both cases.
	pendingOnEmptyInput bool
}

// NewLookupStage builds a lookup stage writing target from fetch. The input
// field gates the call: rows whose input holds the sentinel are marked N/A
// directly, there being nothing to fetch. Empty input is handled per
// pendingOnEmptyInput.
func NewLookupStage(name string, target, input model.Field, fetch FetchFunc, store dataset.Saver) *LookupStage {
	return &LookupStage{
		name:   name,
		target: target,
		input:  input,
		fetch:  fetch,
		store:  store,
	}
}

func (s *LookupStage) Name() string { return s.name }

func (s *LookupStage) Reads() []string {
	return []string{s.input.Column}
}

func (s *LookupStage) Writes() []string {
	return []string{s.target.Column}
}

// Run performs the incremental pass. Only storage errors abort it; every
// per-row lookup failure is absorbed as the sentinel so one run always
// leaves the dataset fully visited.
func (s *LookupStage) Run(ctx context.Context, ds *model.Dataset) error {
	log := zap.L().With(zap.String("stage", s.name))
	total := len(ds.Records)
	var fetched, failed, skipped int

	for i := range ds.Records {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "lookup %s: interrupted at row %d", s.name, i+1)
		}

		rec := &ds.Records[i]

		if model.Attempted(s.target.Get(rec)) {
			skipped++
			continue
		}

		if s.limit > 0 && fetched+failed >= s.limit {
			log.Info("lookup: row limit reached, remaining rows stay pending",
				zap.Int("limit", s.limit),
			)
			break
		}

		input := s.input.Get(rec)
		if s.pendingOnEmptyInput && !model.Attempted(input) {
			skipped++
			continue
		}

		var value string
		if !model.Done(input) {
			// Input is empty or itself a sentinel; mark attempted so the
			// run completes with no empty enrichment cells.
			value = model.Sentinel
			failed++
			log.Warn("lookup: empty input",
				zap.Int("row", i+1),
				zap.String("company", rec.CompanyName),
				zap.String("input", s.input.Column),
			)
		} else if result, err := s.fetch(ctx, rec); err != nil {
			value = model.Sentinel
			failed++
			log.Warn("lookup: fetch failed",
				zap.Int("row", i+1),
				zap.String("company", rec.CompanyName),
				zap.Error(err),
			)
		} else {
			value = result
			fetched++
			log.Info("lookup: row enriched",
				zap.Int("row", i+1),
				zap.Int("total", total),
				zap.String("company", rec.CompanyName),
			)
		}

		s.target.Set(rec, value)

		// Incremental save: bounds re-work after a crash to one row.
		if err := s.store.Save(ds); err != nil {
			return eris.Wrapf(err, "lookup %s: save after row %d", s.name, i+1)
		}
	}

	log.Info("lookup: pass complete",
		zap.Int("fetched", fetched),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)
	return nil
}
