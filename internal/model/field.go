package model

// Field is a named accessor for one column. The generic lookup stage is
// parameterized on a Field rather than a raw column name so record access
// stays typed.
type Field struct {
	Column string
	Get    func(*Record) string
	Set    func(*Record, string)
}

// FieldWebsiteInfo addresses the extracted-information column.
var FieldWebsiteInfo = Field{
	Column: ColWebsiteInfo,
	Get:    func(r *Record) string { return r.WebsiteInfo },
	Set:    func(r *Record, v string) { r.WebsiteInfo = v },
}

// FieldVertical addresses the vertical classification column.
var FieldVertical = Field{
	Column: ColVertical,
	Get:    func(r *Record) string { return r.Vertical },
	Set:    func(r *Record, v string) { r.Vertical = v },
}

// FieldWebsiteURL addresses the website URL column. Not an enrichment field,
// but the normalizer rewrites it in place.
var FieldWebsiteURL = Field{
	Column: ColWebsiteURL,
	Get:    func(r *Record) string { return r.WebsiteURL },
	Set:    func(r *Record, v string) { r.WebsiteURL = v },
}
