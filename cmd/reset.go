package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/dataset"
	"github.com/sells-group/enrich-cli/internal/model"
)

var (
	resetCSV   string
	resetField string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear failed (N/A) values so the next run retries them",
	Long: `Blanks sentinel values in one enrichment column. The next run treats
those rows as never attempted and looks them up again. Real values are
never touched.

Fields:
  info      Website Information
  vertical  Vertical`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if resetCSV != "" {
			cfg.Dataset.Path = resetCSV
		}

		var field model.Field
		switch strings.ToLower(resetField) {
		case "info":
			field = model.FieldWebsiteInfo
		case "vertical":
			field = model.FieldVertical
		default:
			return eris.Errorf("reset: unknown field %q (want info or vertical)", resetField)
		}

		store := dataset.NewStore(cfg.Dataset.Path)
		ds, err := store.Load()
		if err != nil {
			return err
		}

		cleared := 0
		for i := range ds.Records {
			rec := &ds.Records[i]
			v := field.Get(rec)
			if model.Attempted(v) && !model.Done(v) {
				field.Set(rec, "")
				cleared++
			}
		}

		if cleared > 0 {
			if err := store.Save(ds); err != nil {
				return eris.Wrap(err, "reset: save")
			}
		}

		zap.L().Info("reset: sentinel values cleared",
			zap.String("column", field.Column),
			zap.Int("cleared", cleared),
		)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringVar(&resetCSV, "csv", "", "dataset CSV path (overrides config)")
	resetCmd.Flags().StringVar(&resetField, "field", "", "enrichment field to reset: info or vertical (required)")
	_ = resetCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(resetCmd)
}
