package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
)

// Stub capabilities for offline mode and tests. They are deterministic,
// count their calls, and can be told to fail for specific inputs.

// StubExtractor is an Extractor returning canned research text.
type StubExtractor struct {
	// Output is returned for every URL when set; otherwise a short
	// deterministic summary mentioning the URL.
	Output string
	// FailFor lists URLs whose lookup fails.
	FailFor map[string]bool

	calls int
}

func (s *StubExtractor) Extract(_ context.Context, url string) (string, error) {
	s.calls++
	if s.FailFor[url] {
		return "", eris.Errorf("stub extractor: configured failure for %s", url)
	}
	if s.Output != "" {
		return s.Output, nil
	}
	return "COMPANY_NAME: stub\nWEBSITE_FINDINGS: summary of " + url, nil
}

// Calls reports how many lookups were performed.
func (s *StubExtractor) Calls() int { return s.calls }

// StubClassifier is a Classifier returning a canned vertical label.
type StubClassifier struct {
	// Label is returned for every company; defaults to "Broadline".
	Label string
	// FailFor lists company names whose lookup fails.
	FailFor map[string]bool

	calls int
}

func (s *StubClassifier) Classify(_ context.Context, company, _ string) (string, error) {
	s.calls++
	if s.FailFor[company] {
		return "", eris.Errorf("stub classifier: configured failure for %s", company)
	}
	if s.Label != "" {
		return s.Label, nil
	}
	return "Broadline", nil
}

// Calls reports how many lookups were performed.
func (s *StubClassifier) Calls() int { return s.calls }
