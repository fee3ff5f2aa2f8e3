package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_InitializesEnrichmentColumns(t *testing.T) {
	path := writeCSV(t, "Record ID,Company name,Website URL,Distributor Type\n"+
		"1,Acme Foods,acmefoods.com,Broadline\n"+
		"2,Bay Seafood,bayseafood.com,Specialty\n")

	ds, err := NewStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Record ID", "Company name", "Website URL", "Distributor Type",
		"Website Information", "Vertical",
	}, ds.Columns)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, "Acme Foods", ds.Records[0].CompanyName)
	assert.Empty(t, ds.Records[0].WebsiteInfo)
	assert.Empty(t, ds.Records[1].Vertical)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "Record ID,Company name\n1,Acme Foods\n")

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Website URL")
}

func TestLoad_FileAbsent(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "nope.csv")).Load()
	require.Error(t, err)
}

func TestSaveLoad_RoundTripPreservesOrderAndExtras(t *testing.T) {
	path := writeCSV(t, "Record ID,Company name,Website URL,Distributor Type,Owner,Website Information,Vertical\n"+
		"3,Zeta Produce,zetaproduce.com,Specialty,blake,,\n"+
		"1,Acme Foods,acmefoods.com,Broadline,dana,existing info,Meat\n")

	store := NewStore(path)
	ds, err := store.Load()
	require.NoError(t, err)

	ds.Records[0].WebsiteInfo = "fresh produce distributor"
	require.NoError(t, store.Save(ds))

	reloaded, err := store.Load()
	require.NoError(t, err)

	require.Len(t, reloaded.Records, 2)
	// Insertion order survives, no reordering by ID.
	assert.Equal(t, "3", reloaded.Records[0].RecordID)
	assert.Equal(t, "fresh produce distributor", reloaded.Records[0].WebsiteInfo)
	assert.Equal(t, "existing info", reloaded.Records[1].WebsiteInfo)
	assert.Equal(t, "Meat", reloaded.Records[1].Vertical)
	// Unknown columns pass through untouched.
	assert.Equal(t, "blake", reloaded.Records[0].Extra["Owner"])
	assert.Equal(t, ds.Columns, reloaded.Columns)
}

func TestSave_FailureLeavesPreviousFileIntact(t *testing.T) {
	path := writeCSV(t, "Record ID,Company name,Website URL,Distributor Type\n"+
		"1,Acme Foods,acmefoods.com,Broadline\n")

	store := NewStore(path)
	ds, err := store.Load()
	require.NoError(t, err)

	// Point the store at a directory that cannot hold a temp file.
	bad := NewStore(filepath.Join(t.TempDir(), "missing-dir", "companies.csv"))
	require.Error(t, bad.Save(ds))

	// Original file still loads.
	again, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, again.Records, 1)
}

func TestSave_NoStrayTempFiles(t *testing.T) {
	path := writeCSV(t, "Record ID,Company name,Website URL,Distributor Type\n"+
		"1,Acme Foods,acmefoods.com,Broadline\n")

	store := NewStore(path)
	ds, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save(ds))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestSave_SentinelSurvivesRoundTrip(t *testing.T) {
	path := writeCSV(t, "Record ID,Company name,Website URL,Distributor Type\n"+
		"1,Acme Foods,acmefoods.com,Broadline\n")

	store := NewStore(path)
	ds, err := store.Load()
	require.NoError(t, err)

	ds.Records[0].WebsiteInfo = model.Sentinel
	require.NoError(t, store.Save(ds))

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.Sentinel, reloaded.Records[0].WebsiteInfo)
	assert.True(t, model.Attempted(reloaded.Records[0].WebsiteInfo))
	assert.False(t, model.Done(reloaded.Records[0].WebsiteInfo))
}
