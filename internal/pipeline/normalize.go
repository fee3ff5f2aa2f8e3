package pipeline

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/dataset"
	"github.com/sells-group/enrich-cli/internal/model"
)

// blockedHosts are webmail and search-engine domains that show up in CRM URL
// fields but are never company homepages. Rows are never dropped; the URL is
// blanked and the extraction stage marks the row N/A.
var blockedHosts = []string{"google.", "outlook.", "yahoo."}

// unwantedSubdomains are stripped down to the base domain. www is canonical
// and stays.
var unwantedSubdomains = []string{"mail.", "webmail.", "email.", "m.", "shop.", "store.", "links."}

// NormalizeStage canonicalizes the website URL column in place. It is cheap
// and deterministic, so it re-runs over every row unconditionally and
// persists once at the end.
type NormalizeStage struct {
	store dataset.Saver
}

// NewNormalizeStage builds the URL normalization stage.
func NewNormalizeStage(store dataset.Saver) *NormalizeStage {
	return &NormalizeStage{store: store}
}

func (s *NormalizeStage) Name() string { return StageNormalize }

func (s *NormalizeStage) Reads() []string {
	return []string{model.ColWebsiteURL}
}

func (s *NormalizeStage) Writes() []string {
	return []string{model.ColWebsiteURL}
}

func (s *NormalizeStage) Run(_ context.Context, ds *model.Dataset) error {
	changed := 0
	for i := range ds.Records {
		rec := &ds.Records[i]
		cleaned := NormalizeURL(rec.WebsiteURL)
		if cleaned != rec.WebsiteURL {
			changed++
		}
		rec.WebsiteURL = cleaned
	}

	if err := s.store.Save(ds); err != nil {
		return eris.Wrap(err, "normalize: save")
	}

	zap.L().Info("normalize: pass complete",
		zap.Int("rows", len(ds.Records)),
		zap.Int("changed", changed),
	)
	return nil
}

// NormalizeURL collapses a raw website URL to its canonical homepage form:
// default https scheme, lowercase host, no path or query. It never fails:
// input that cannot be parsed is passed through unchanged, and known webmail
// or search-engine hosts become an explicit blank.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	withScheme := raw
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		withScheme = "https://" + raw
	}

	u, err := url.Parse(withScheme)
	if err != nil || u.Hostname() == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	for _, blocked := range blockedHosts {
		if strings.HasPrefix(host, blocked) || strings.Contains(host, "."+blocked[:len(blocked)-1]+".") {
			return ""
		}
	}

	for _, sub := range unwantedSubdomains {
		if trimmed, ok := strings.CutPrefix(host, sub); ok && strings.Contains(trimmed, ".") {
			host = trimmed
			break
		}
	}

	scheme := u.Scheme
	if scheme != "http" && scheme != "https" {
		scheme = "https"
	}
	return scheme + "://" + host
}
