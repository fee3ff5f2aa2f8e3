package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/enrich-cli/internal/model"
)

// ImportXLSX reads a CRM spreadsheet export and returns it as a Dataset ready
// to be saved as the pipeline CSV. The first row of the first sheet is the
// header; the required base columns must be present. Enrichment columns are
// appended empty when the export does not carry them.
func ImportXLSX(path string) (*model.Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("dataset: xlsx %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("dataset: xlsx %s has no header row", path)
	}

	colIdx := make(map[string]int)
	var columns []string
	for i, c := range sheet.Rows[0].Cells {
		name := strings.TrimSpace(c.String())
		if name == "" {
			continue
		}
		colIdx[name] = i
		columns = append(columns, name)
	}

	for _, col := range model.BaseColumns() {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: xlsx %s missing required column %q", path, col)
		}
	}
	for _, col := range model.EnrichmentColumns() {
		if _, ok := colIdx[col]; !ok {
			colIdx[col] = -1
			columns = append(columns, col)
		}
	}

	records := make([]model.Record, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		rec := model.Record{}
		empty := true
		for col, idx := range colIdx {
			v := cell(cells, idx)
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			setValue(&rec, col, v)
		}
		// Trailing blank spreadsheet rows are not data.
		if empty {
			continue
		}
		records = append(records, rec)
	}

	return &model.Dataset{Columns: columns, Records: records}, nil
}
