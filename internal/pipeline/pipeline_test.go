package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestValidateOrder_RejectsClassifyBeforeExtract(t *testing.T) {
	store := newMemStore()
	extractor := &StubExtractor{}
	classifier := &StubClassifier{}

	stages := []Stage{
		NewNormalizeStage(store),
		// Classification reads the information column, which only the
		// extraction stage writes.
		NewLookupStage(StageClassify, model.FieldVertical, model.FieldWebsiteInfo, ClassifyFetch(classifier), store),
		NewLookupStage(StageExtract, model.FieldWebsiteInfo, model.FieldWebsiteURL, ExtractFetch(extractor), store),
	}

	err := NewRunner(store, stages...).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reads column")
	assert.Equal(t, 0, store.saves, "nothing runs when the order is invalid")
}

func TestValidateOrder_AcceptsFixedOrder(t *testing.T) {
	stages := NewStages(newMemStore(), &StubExtractor{}, &StubClassifier{}, Options{Taxonomy: DefaultTaxonomy()})
	assert.NoError(t, validateOrder(stages))
}

func TestRunner_EndToEnd(t *testing.T) {
	store := newMemStore(
		model.Record{RecordID: "1", CompanyName: "Acme", WebsiteURL: "Acme.com/about", DistributorType: "Redistributor"},
		model.Record{RecordID: "2", CompanyName: "Globex", WebsiteURL: "https://www.globex.com", DistributorType: "Distributor"},
		model.Record{RecordID: "3", CompanyName: "Initech", WebsiteURL: "", DistributorType: "Distributor"},
	)

	extractor := &StubExtractor{}
	classifier := &StubClassifier{Label: "ice cream"} // repair canonicalizes

	runner := NewRunner(store, NewStages(store, extractor, classifier, Options{Taxonomy: DefaultTaxonomy()})...)
	require.NoError(t, runner.Run(context.Background()))

	recs := store.ds.Records

	// Rows with a usable URL are fully enriched.
	assert.Equal(t, "https://acme.com", recs[0].WebsiteURL)
	assert.True(t, model.Done(recs[0].WebsiteInfo))
	assert.Equal(t, "Ice Cream", recs[0].Vertical)
	assert.True(t, model.Done(recs[1].WebsiteInfo))
	assert.Equal(t, "Ice Cream", recs[1].Vertical)

	// The URL-less row is kept and marked, not dropped.
	assert.Equal(t, model.Sentinel, recs[2].WebsiteInfo)
	assert.Equal(t, model.Sentinel, recs[2].Vertical)

	// Only rows with a real URL reach the extractor; only rows with real
	// information reach the classifier.
	assert.Equal(t, 2, extractor.Calls())
	assert.Equal(t, 2, classifier.Calls())

	// normalize(1) + extract(3 mutated rows) + classify(3) + repair(1).
	assert.Equal(t, 8, store.saves)
}

func TestRunner_RerunIsNoOp(t *testing.T) {
	store := newMemStore(
		model.Record{RecordID: "1", CompanyName: "Acme", WebsiteURL: "acme.com", DistributorType: "Distributor"},
		model.Record{RecordID: "2", CompanyName: "Globex", WebsiteURL: "", DistributorType: "Distributor"},
	)

	run := func(e *StubExtractor, c *StubClassifier) {
		runner := NewRunner(store, NewStages(store, e, c, Options{Taxonomy: DefaultTaxonomy()})...)
		require.NoError(t, runner.Run(context.Background()))
	}

	run(&StubExtractor{}, &StubClassifier{})
	enriched := snapshot(store.ds)
	savesAfterFirst := store.saves

	e2, c2 := &StubExtractor{}, &StubClassifier{}
	run(e2, c2)

	assert.Equal(t, 0, e2.Calls(), "every row already attempted")
	assert.Equal(t, 0, c2.Calls())
	assert.Equal(t, enriched.Records, store.ds.Records, "rerun changes no data")
	// Normalize and repair still make their single full-pass saves.
	assert.Equal(t, savesAfterFirst+2, store.saves)
}

func TestRunner_FailedRowsRecoverableAfterReset(t *testing.T) {
	store := newMemStore(
		model.Record{RecordID: "1", CompanyName: "Acme", WebsiteURL: "https://acme.com", DistributorType: "Distributor"},
		model.Record{RecordID: "2", CompanyName: "Globex", WebsiteURL: "https://globex.com", DistributorType: "Distributor"},
	)

	failing := &StubExtractor{FailFor: map[string]bool{"https://globex.com": true}}
	runner := NewRunner(store, NewStages(store, failing, &StubClassifier{}, Options{Taxonomy: DefaultTaxonomy()})...)
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, model.Sentinel, store.ds.Records[1].WebsiteInfo)
	assert.Equal(t, model.Sentinel, store.ds.Records[1].Vertical)

	// Clearing the sentinels is the explicit retry path.
	ds, err := store.Load()
	require.NoError(t, err)
	ds.Records[1].WebsiteInfo = ""
	ds.Records[1].Vertical = ""
	require.NoError(t, store.Save(ds))

	healthy := &StubExtractor{}
	runner = NewRunner(store, NewStages(store, healthy, &StubClassifier{}, Options{Taxonomy: DefaultTaxonomy()})...)
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, 1, healthy.Calls(), "only the reset row is refetched")
	assert.True(t, model.Done(store.ds.Records[1].WebsiteInfo))
	assert.True(t, model.Done(store.ds.Records[1].Vertical))
}

func TestRunner_LookupLimitLeavesRemainderPending(t *testing.T) {
	store := newMemStore(
		model.Record{RecordID: "1", CompanyName: "Acme", WebsiteURL: "https://acme.com", DistributorType: "Distributor"},
		model.Record{RecordID: "2", CompanyName: "Globex", WebsiteURL: "https://globex.com", DistributorType: "Distributor"},
		model.Record{RecordID: "3", CompanyName: "Initech", WebsiteURL: "https://initech.com", DistributorType: "Distributor"},
	)

	opts := Options{LookupLimit: 2, Taxonomy: DefaultTaxonomy()}

	e1, c1 := &StubExtractor{}, &StubClassifier{}
	require.NoError(t, NewRunner(store, NewStages(store, e1, c1, opts)...).Run(context.Background()))

	assert.Equal(t, 2, e1.Calls())
	assert.Equal(t, 2, c1.Calls())
	assert.True(t, model.Done(store.ds.Records[0].WebsiteInfo))
	assert.True(t, model.Done(store.ds.Records[1].Vertical))
	// The third row is untouched pending, not marked failed: an empty
	// information field means extraction has not reached it yet.
	assert.Equal(t, "", store.ds.Records[2].WebsiteInfo)
	assert.Equal(t, "", store.ds.Records[2].Vertical)

	// The next limited run finishes the remainder.
	e2, c2 := &StubExtractor{}, &StubClassifier{}
	require.NoError(t, NewRunner(store, NewStages(store, e2, c2, opts)...).Run(context.Background()))

	assert.Equal(t, 1, e2.Calls())
	assert.Equal(t, 1, c2.Calls())
	assert.True(t, model.Done(store.ds.Records[2].WebsiteInfo))
	assert.True(t, model.Done(store.ds.Records[2].Vertical))
}
