package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/dataset"
	"github.com/sells-group/enrich-cli/internal/model"
)

// DefaultMaxInfoLength is the length above which an information field is
// considered to have absorbed boilerplate or an error page.
const DefaultMaxInfoLength = 7500

// maxLabelLength bounds a plausible vertical label; anything longer is a
// model transcript, not a label.
const maxLabelLength = 100

// typoFixes are known model misspellings repaired in place.
var typoFixes = map[string]string{
	"NUMNBER": "NUMBER",
}

// RepairStage rewrites implausible enrichment values across all rows. Its
// only effect is pushing bad values toward the fixed sentinel or canonical
// spellings, so running it twice equals running it once. It persists once
// after the full pass.
type RepairStage struct {
	store    dataset.Saver
	maxLen   int
	taxonomy *Taxonomy
}

// NewRepairStage builds the repair stage. maxLen <= 0 selects
// DefaultMaxInfoLength; a nil taxonomy skips vertical canonicalization.
func NewRepairStage(store dataset.Saver, maxLen int, taxonomy *Taxonomy) *RepairStage {
	if maxLen <= 0 {
		maxLen = DefaultMaxInfoLength
	}
	return &RepairStage{store: store, maxLen: maxLen, taxonomy: taxonomy}
}

func (s *RepairStage) Name() string { return StageRepair }

func (s *RepairStage) Reads() []string {
	return []string{model.ColWebsiteInfo, model.ColVertical}
}

func (s *RepairStage) Writes() []string {
	return []string{model.ColWebsiteInfo, model.ColVertical}
}

func (s *RepairStage) Run(_ context.Context, ds *model.Dataset) error {
	repaired := 0
	for i := range ds.Records {
		rec := &ds.Records[i]

		if fixed := s.repairInfo(rec.WebsiteInfo); fixed != rec.WebsiteInfo {
			rec.WebsiteInfo = fixed
			repaired++
		}
		if fixed := s.repairVertical(rec.Vertical); fixed != rec.Vertical {
			rec.Vertical = fixed
			repaired++
		}
	}

	if err := s.store.Save(ds); err != nil {
		return eris.Wrap(err, "repair: save")
	}

	zap.L().Info("repair: pass complete",
		zap.Int("rows", len(ds.Records)),
		zap.Int("repaired", repaired),
	)
	return nil
}

// repairInfo applies the information-field policy: fix known typos, then
// replace over-long or error-marked values with the sentinel. Empty values
// stay empty; repair never reverts an attempted field.
func (s *RepairStage) repairInfo(v string) string {
	if !model.Attempted(v) {
		return v
	}
	for typo, fix := range typoFixes {
		v = strings.ReplaceAll(v, typo, fix)
	}
	if strings.HasPrefix(strings.TrimSpace(v), "ERROR:") {
		return model.Sentinel
	}
	if len(v) > s.maxLen {
		return model.Sentinel
	}
	return v
}

// repairVertical applies the label policy: error-marked or transcript-length
// values become the sentinel; known labels are canonicalized. Unknown short
// labels pass through, the label set being open.
func (s *RepairStage) repairVertical(v string) string {
	if !model.Attempted(v) {
		return v
	}
	trimmed := strings.TrimSpace(v)
	if strings.HasPrefix(trimmed, "ERROR:") || len(trimmed) > maxLabelLength {
		return model.Sentinel
	}
	if s.taxonomy != nil {
		if canonical, ok := s.taxonomy.Canonical(trimmed); ok {
			return canonical
		}
	}
	return trimmed
}
