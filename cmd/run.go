package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/dataset"
	"github.com/sells-group/enrich-cli/internal/pipeline"
	"github.com/sells-group/enrich-cli/internal/prompt"
	"github.com/sells-group/enrich-cli/internal/resilience"
	"github.com/sells-group/enrich-cli/pkg/openai"
	"github.com/sells-group/enrich-cli/pkg/perplexity"
)

var (
	runCSV     string
	runOffline bool
	runLimit   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full enrichment pipeline once",
	Long: `Runs normalize, extract, classify, and repair in order over the dataset CSV.

Every enriched row is persisted immediately, so an interrupted run resumes
where it left off: rows that already hold a value (including N/A) are
skipped. Rows whose lookups fail are marked N/A and are not a run failure.

Examples:
  # Real APIs
  enrich-cli run --csv data/companies.csv

  # Offline stub capabilities (no API keys needed)
  enrich-cli run --csv data/companies.csv --offline`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if runCSV != "" {
			cfg.Dataset.Path = runCSV
		}

		runner, err := newRunner(runOffline)
		if err != nil {
			return err
		}
		return runner.Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVar(&runCSV, "csv", "", "dataset CSV path (overrides config)")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "use stub capabilities (no API keys needed)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "max lookups per stage this run, 0 for all; remaining rows stay pending")
	rootCmd.AddCommand(runCmd)
}

// newRunner wires the store, capabilities, and stages for one pipeline run.
func newRunner(offline bool) (*pipeline.Runner, error) {
	store := dataset.NewStore(cfg.Dataset.Path)

	var extractor pipeline.Extractor
	var classifier pipeline.Classifier

	if offline {
		extractor = &pipeline.StubExtractor{}
		classifier = &pipeline.StubClassifier{}
	} else {
		if err := validateAPIKeys(); err != nil {
			return nil, err
		}

		infoTpl, err := prompt.LoadOrDefault(filepath.Join(cfg.Prompts.Dir, "website_info.txt"), prompt.DefaultWebsiteInfo)
		if err != nil {
			return nil, err
		}
		vertTpl, err := prompt.LoadOrDefault(filepath.Join(cfg.Prompts.Dir, "vertical.txt"), prompt.DefaultVertical)
		if err != nil {
			return nil, err
		}

		retryCfg := resilience.RetryConfig{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: time.Duration(cfg.Retry.InitialBackoffMS) * time.Millisecond,
			MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffMS) * time.Millisecond,
		}

		pplx := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
			perplexity.WithRateLimit(cfg.Perplexity.RPS),
		)
		extractor = pipeline.WithExtractRetry(
			pipeline.NewPerplexityExtractor(pplx, infoTpl, cfg.Perplexity.MaxTokens),
			retryCfg,
		)

		oai := openai.NewClient(cfg.OpenAI.Key,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithRateLimit(cfg.OpenAI.RPS),
		)
		classifier = pipeline.WithClassifyRetry(
			pipeline.NewOpenAIClassifier(oai, vertTpl, cfg.OpenAI.Effort),
			retryCfg,
		)
	}

	taxonomy := pipeline.DefaultTaxonomy()
	if cfg.Repair.TaxonomyPath != "" {
		t, err := pipeline.LoadTaxonomy(cfg.Repair.TaxonomyPath)
		if err != nil {
			return nil, err
		}
		taxonomy = t
	}

	stages := pipeline.NewStages(store, extractor, classifier, pipeline.Options{
		MaxInfoLength: cfg.Repair.MaxInfoLength,
		LookupLimit:   runLimit,
		Taxonomy:      taxonomy,
	})
	return pipeline.NewRunner(store, stages...), nil
}

// validateAPIKeys checks that required keys are configured for real mode.
func validateAPIKeys() error {
	var missing []string
	if cfg.Perplexity.Key == "" {
		missing = append(missing, "ENRICH_PERPLEXITY_KEY (required: extraction)")
	}
	if cfg.OpenAI.Key == "" {
		missing = append(missing, "ENRICH_OPENAI_KEY (required: classification)")
	}
	if len(missing) > 0 {
		return eris.Errorf("run: missing required API keys:\n  %s\n\nSet these env vars or use --offline for stub mode", strings.Join(missing, "\n  "))
	}

	zap.L().Debug("api keys present")
	return nil
}
