// Package prompt loads and renders the prompt templates sent to the lookup
// services. The exact prompt text is operator policy: templates live as plain
// text files in a prompts directory and built-in defaults apply when a file
// is absent.
package prompt

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Template is a loaded prompt template.
type Template struct {
	text string
}

// Var is one substitution for Render. If the template contains {Name} it is
// replaced in place; otherwise "Label: value" is appended, so a template
// without placeholders still produces a usable prompt.
type Var struct {
	Name  string
	Label string
	Value string
}

// New wraps literal template text.
func New(text string) Template {
	return Template{text: text}
}

// Load reads a template file.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, eris.Wrapf(err, "prompt: read %s", path)
	}
	return Template{text: string(data)}, nil
}

// LoadOrDefault reads the template at path, falling back to fallback text
// when the file does not exist. Any other read error is returned.
func LoadOrDefault(path, fallback string) (Template, error) {
	t, err := Load(path)
	if err == nil {
		return t, nil
	}
	if os.IsNotExist(eris.Cause(err)) {
		return Template{text: fallback}, nil
	}
	return Template{}, err
}

// Render substitutes vars into the template.
func (t Template) Render(vars ...Var) string {
	out := t.text
	for _, v := range vars {
		placeholder := "{" + v.Name + "}"
		if strings.Contains(out, placeholder) {
			out = strings.ReplaceAll(out, placeholder, v.Value)
			continue
		}
		out += "\n\n" + v.Label + ": " + v.Value
	}
	return out
}

// Default templates used when the prompts directory has no override.
const (
	// DefaultWebsiteInfo asks for the structured company summary the
	// downstream parser and classifier expect.
	DefaultWebsiteInfo = `Visit the company homepage at {URL} and summarize what the company does.

Report the following, one section per line, using the section name in capitals followed by a colon:
COMPANY_NAME, PRODUCTS, BUSINESS_MODEL, WEBSITE_FINDINGS, TARGET_CUSTOMERS,
DISTRIBUTION FINDINGS, PRODUCT BRANDS, ADDITIONAL FINDINGS.

If the site is unreachable or is not a company website, answer with exactly N/A.`

	// DefaultVertical asks for a single distribution vertical label.
	DefaultVertical = `You are classifying food and consumables distributors.

Given the company research below, answer with the single vertical that best
describes the company, for example: Alcohol, Bakery, Beverage, Broadline,
C-Store, Coffee, Dairy, Grocery, Ice Cream, Jan-San, Meat, Produce, Retail,
Seafood. Answer with the label only.

Company name: {COMPANY}

Website Information:
{INFO}`
)
