// Package dataset persists the company table as a CSV file. It is the single
// persistence substrate for every pipeline stage: Load reads the whole table
// into memory and Save atomically rewrites it, so a crash between saves never
// corrupts the previous good file.
package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Saver is the subset of Store the row-visiting stages depend on. Save is
// called once per enriched row, so implementations must leave a valid,
// reloadable file behind at every point.
type Saver interface {
	Save(ds *model.Dataset) error
}

// Store reads and writes the dataset CSV at a fixed path.
type Store struct {
	Path string
}

// NewStore returns a Store for the CSV at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the on-disk table, preserving row order and all columns. Missing
// enrichment columns are appended to the schema and initialized empty. It
// fails if the file is absent or the required base columns are missing.
func (s *Store) Load() (*model.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", s.Path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", s.Path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("dataset: %s has no header row", s.Path)
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	columns := make([]string, 0, len(header)+2)
	for i, col := range header {
		name := strings.TrimSpace(col)
		colIdx[name] = i
		columns = append(columns, name)
	}

	for _, col := range model.BaseColumns() {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: %s missing required column %q", s.Path, col)
		}
	}
	for _, col := range model.EnrichmentColumns() {
		if _, ok := colIdx[col]; !ok {
			colIdx[col] = -1
			columns = append(columns, col)
		}
	}

	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := model.Record{}
		for col, idx := range colIdx {
			setValue(&rec, col, cell(row, idx))
		}
		records = append(records, rec)
	}

	return &model.Dataset{Columns: columns, Records: records}, nil
}

// Save writes the full table back atomically: the CSV is written to a temp
// file in the same directory, synced, and renamed over the target.
func (s *Store) Save(ds *model.Dataset) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".tmp-*.csv")
	if err != nil {
		return eris.Wrapf(err, "dataset: create temp in %s", dir)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	writeErr := writer.Write(ds.Columns)
	for i := range ds.Records {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(rowValues(&ds.Records[i], ds.Columns))
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(writeErr, "dataset: write temp %s", tmpPath)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "dataset: replace %s", s.Path)
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func setValue(rec *model.Record, col, value string) {
	switch col {
	case model.ColRecordID:
		rec.RecordID = value
	case model.ColCompanyName:
		rec.CompanyName = value
	case model.ColWebsiteURL:
		rec.WebsiteURL = value
	case model.ColDistributorType:
		rec.DistributorType = value
	case model.ColWebsiteInfo:
		rec.WebsiteInfo = value
	case model.ColVertical:
		rec.Vertical = value
	default:
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[col] = value
	}
}

func value(rec *model.Record, col string) string {
	switch col {
	case model.ColRecordID:
		return rec.RecordID
	case model.ColCompanyName:
		return rec.CompanyName
	case model.ColWebsiteURL:
		return rec.WebsiteURL
	case model.ColDistributorType:
		return rec.DistributorType
	case model.ColWebsiteInfo:
		return rec.WebsiteInfo
	case model.ColVertical:
		return rec.Vertical
	default:
		return rec.Extra[col]
	}
}

func rowValues(rec *model.Record, columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = value(rec, col)
	}
	return out
}
