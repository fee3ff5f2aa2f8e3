package pipeline

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

// Retry decorators wrap a capability with bounded retry-with-backoff. The
// row-visiting loop itself never retries: a capability that still fails
// after its attempts is recorded as a sentinel like any other failure.

type retryingExtractor struct {
	inner Extractor
	cfg   resilience.RetryConfig
}

// WithExtractRetry wraps an Extractor so transient failures are retried.
func WithExtractRetry(e Extractor, cfg resilience.RetryConfig) Extractor {
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("perplexity", "extract")
	}
	return &retryingExtractor{inner: e, cfg: cfg}
}

func (r *retryingExtractor) Extract(ctx context.Context, url string) (string, error) {
	return resilience.Retry(ctx, r.cfg, func(ctx context.Context) (string, error) {
		return r.inner.Extract(ctx, url)
	})
}

type retryingClassifier struct {
	inner Classifier
	cfg   resilience.RetryConfig
}

// WithClassifyRetry wraps a Classifier so transient failures are retried.
func WithClassifyRetry(c Classifier, cfg resilience.RetryConfig) Classifier {
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("openai", "classify")
	}
	return &retryingClassifier{inner: c, cfg: cfg}
}

func (r *retryingClassifier) Classify(ctx context.Context, company, info string) (string, error) {
	return resilience.Retry(ctx, r.cfg, func(ctx context.Context) (string, error) {
		return r.inner.Classify(ctx, company, info)
	})
}
