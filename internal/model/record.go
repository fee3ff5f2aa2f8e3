// Package model defines the dataset schema shared by every pipeline stage.
package model

import "strings"

// Sentinel marks an enrichment field as attempted but unresolved. It is
// distinct from the empty string, which means the field was never attempted.
const Sentinel = "N/A"

// Column names of the upstream CRM export plus the enrichment columns.
const (
	ColRecordID        = "Record ID"
	ColCompanyName     = "Company name"
	ColWebsiteURL      = "Website URL"
	ColDistributorType = "Distributor Type"
	ColWebsiteInfo     = "Website Information"
	ColVertical        = "Vertical"
)

// BaseColumns are required in the upstream export.
func BaseColumns() []string {
	return []string{ColRecordID, ColCompanyName, ColWebsiteURL, ColDistributorType}
}

// EnrichmentColumns may be absent on first load and are then initialized empty.
func EnrichmentColumns() []string {
	return []string{ColWebsiteInfo, ColVertical}
}

// Record is one company row. Stages receive mutable access to one record at a
// time and must not retain references across rows.
type Record struct {
	RecordID        string
	CompanyName     string
	WebsiteURL      string
	DistributorType string
	WebsiteInfo     string
	Vertical        string

	// Extra holds columns outside the fixed schema so they survive a
	// load/save round trip untouched.
	Extra map[string]string
}

// Dataset is the ordered sequence of records. Row position is the
// resumability key; order is preserved across save and reload.
type Dataset struct {
	// Columns is the on-disk header order.
	Columns []string
	Records []Record
}

// Attempted reports whether a field holds any value, including the sentinel.
// This is the lookup skip predicate: a sentinel row is not retried on the
// next run.
func Attempted(v string) bool {
	return strings.TrimSpace(v) != ""
}

// Done reports whether a field holds a real value rather than the sentinel.
func Done(v string) bool {
	return Attempted(v) && strings.TrimSpace(v) != Sentinel
}
