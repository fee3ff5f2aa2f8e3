package pipeline

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/prompt"
	"github.com/sells-group/enrich-cli/internal/resilience"
	"github.com/sells-group/enrich-cli/pkg/openai"
)

// Classifier is the vertical classification capability: company name and
// extracted research in, one vertical label out.
type Classifier interface {
	Classify(ctx context.Context, company, info string) (string, error)
}

// OpenAIClassifier backs Classifier with the OpenAI Responses API.
type OpenAIClassifier struct {
	client openai.Client
	tpl    prompt.Template
	effort string
}

// NewOpenAIClassifier builds a classifier rendering tpl with the company
// name and its extracted information.
func NewOpenAIClassifier(client openai.Client, tpl prompt.Template, effort string) *OpenAIClassifier {
	if effort == "" {
		effort = "high"
	}
	return &OpenAIClassifier{client: client, tpl: tpl, effort: effort}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, company, info string) (string, error) {
	text := c.tpl.Render(
		prompt.Var{Name: "INFO", Label: "Website Information", Value: info},
		prompt.Var{Name: "COMPANY", Label: "Company name", Value: company},
	)

	resp, err := c.client.CreateResponse(ctx, openai.ResponseRequest{
		Input:     text,
		Reasoning: &openai.Reasoning{Effort: c.effort},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return "", resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return "", eris.Wrap(err, "classify: create response")
	}

	label := StripReasoning(resp.OutputText())
	if label == "" {
		return "", eris.New("classify: response has no output text")
	}
	return label, nil
}

// ClassifyFetch adapts a Classifier to the lookup engine's FetchFunc. The
// classification input is the information field populated by the extraction
// stage; the lookup engine guarantees it is non-empty before calling.
func ClassifyFetch(c Classifier) FetchFunc {
	return func(ctx context.Context, rec *model.Record) (string, error) {
		return c.Classify(ctx, rec.CompanyName, rec.WebsiteInfo)
	}
}
