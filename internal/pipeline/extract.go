package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/prompt"
	"github.com/sells-group/enrich-cli/internal/resilience"
	"github.com/sells-group/enrich-cli/pkg/perplexity"
)

// Extractor is the information-extraction capability: homepage URL in,
// free-text company research out.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// PerplexityExtractor backs Extractor with the Perplexity API.
type PerplexityExtractor struct {
	client    perplexity.Client
	tpl       prompt.Template
	maxTokens int
}

// NewPerplexityExtractor builds an extractor rendering tpl with the row URL.
func NewPerplexityExtractor(client perplexity.Client, tpl prompt.Template, maxTokens int) *PerplexityExtractor {
	if maxTokens <= 0 {
		maxTokens = 4500
	}
	return &PerplexityExtractor{client: client, tpl: tpl, maxTokens: maxTokens}
}

func (e *PerplexityExtractor) Extract(ctx context.Context, url string) (string, error) {
	text := e.tpl.Render(prompt.Var{Name: "URL", Label: "Website", Value: url})

	resp, err := e.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages:  []perplexity.Message{{Role: "user", Content: text}},
		MaxTokens: &e.maxTokens,
	})
	if err != nil {
		var apiErr *perplexity.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return "", resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return "", eris.Wrap(err, "extract: chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("extract: response has no choices")
	}

	return StripReasoning(resp.Choices[0].Message.Content), nil
}

// StripReasoning drops a reasoning model's <think> preamble, keeping only
// the text after the closing tag.
func StripReasoning(content string) string {
	if _, after, found := strings.Cut(content, "</think>"); found {
		content = after
	}
	return strings.TrimSpace(content)
}

// ExtractFetch adapts an Extractor to the lookup engine's FetchFunc,
// fetching from the record's website URL.
func ExtractFetch(e Extractor) FetchFunc {
	return func(ctx context.Context, rec *model.Record) (string, error) {
		return e.Extract(ctx, rec.WebsiteURL)
	}
}
