package pipeline

import "github.com/sells-group/enrich-cli/internal/model"

// Stage names in their fixed execution order.
const (
	StageNormalize = "normalize"
	StageExtract   = "extract"
	StageClassify  = "classify"
	StageRepair    = "repair"
)

// Options tunes the assembled stages. The zero value is usable: default
// length threshold, no lookup cap, no vertical canonicalization.
type Options struct {
	// MaxInfoLength is the repair stage's length threshold; <= 0 selects
	// DefaultMaxInfoLength.
	MaxInfoLength int
	// LookupLimit caps mutated rows per lookup stage per run; 0 means no
	// cap. Remaining rows stay pending for the next run.
	LookupLimit int
	// Taxonomy canonicalizes vertical labels in the repair stage.
	Taxonomy *Taxonomy
}

// NewStages assembles the fixed stage order: normalize, extract lookup,
// classify lookup, repair. The order is not configurable; the classify
// stage's skip predicate depends on the extract stage having populated the
// information field, which the runner's startup assertion verifies.
func NewStages(store Store, extractor Extractor, classifier Classifier, opts Options) []Stage {
	extract := NewLookupStage(StageExtract, model.FieldWebsiteInfo, model.FieldWebsiteURL, ExtractFetch(extractor), store)
	extract.limit = opts.LookupLimit
	classify := NewLookupStage(StageClassify, model.FieldVertical, model.FieldWebsiteInfo, ClassifyFetch(classifier), store)
	classify.limit = opts.LookupLimit
	classify.pendingOnEmptyInput = true

	return []Stage{
		NewNormalizeStage(store),
		extract,
		classify,
		NewRepairStage(store, opts.MaxInfoLength, opts.Taxonomy),
	}
}
