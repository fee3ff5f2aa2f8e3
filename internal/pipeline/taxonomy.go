package pipeline

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Taxonomy maps vertical label variants to their canonical spelling. The
// label set is open: unknown labels are left alone, known labels are fixed
// to one spelling so the same vertical never appears under two names.
type Taxonomy struct {
	canonical map[string]string
}

// defaultVerticals is the built-in distribution taxonomy, used when no
// taxonomy file is configured.
var defaultVerticals = []string{
	"Alcohol",
	"Bakery",
	"Beverage",
	"Broadline",
	"C-Store",
	"Coffee",
	"Dairy",
	"Grocery",
	"Ice Cream",
	"Jan-San",
	"Meat",
	"Produce",
	"Retail",
	"Seafood",
}

// NewTaxonomy builds a taxonomy from canonical labels.
func NewTaxonomy(labels []string) *Taxonomy {
	t := &Taxonomy{canonical: make(map[string]string, len(labels))}
	for _, label := range labels {
		t.canonical[labelKey(label)] = label
	}
	return t
}

// DefaultTaxonomy returns the built-in vertical taxonomy.
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(defaultVerticals)
}

// LoadTaxonomy reads canonical labels from a YAML file of the form:
//
//	verticals:
//	  - Broadline
//	  - Produce
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: read %s", path)
	}

	var doc struct {
		Verticals []string `yaml:"verticals"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "taxonomy: parse %s", path)
	}
	if len(doc.Verticals) == 0 {
		return nil, eris.Errorf("taxonomy: %s lists no verticals", path)
	}

	return NewTaxonomy(doc.Verticals), nil
}

// Canonical returns the canonical spelling for a label variant. Matching
// ignores case, spaces, hyphens, and slashes, so "ice-cream", "Ice cream"
// and "Ice Cream" all resolve to the same label.
func (t *Taxonomy) Canonical(label string) (string, bool) {
	c, ok := t.canonical[labelKey(label)]
	return c, ok
}

func labelKey(label string) string {
	key := strings.ToLower(label)
	for _, r := range []string{" ", "-", "/"} {
		key = strings.ReplaceAll(key, r, "")
	}
	return key
}
