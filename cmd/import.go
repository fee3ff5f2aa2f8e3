package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/dataset"
)

var (
	importXLSX string
	importCSV  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an XLSX export into the dataset CSV",
	Long: `Converts a spreadsheet export (first sheet) into the dataset CSV the
pipeline operates on. Enrichment columns are added empty when the export
lacks them; extra columns are preserved.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if importCSV != "" {
			cfg.Dataset.Path = importCSV
		}

		ds, err := dataset.ImportXLSX(importXLSX)
		if err != nil {
			return err
		}

		store := dataset.NewStore(cfg.Dataset.Path)
		if err := store.Save(ds); err != nil {
			return eris.Wrapf(err, "import: write %s", cfg.Dataset.Path)
		}

		zap.L().Info("import: dataset written",
			zap.String("from", importXLSX),
			zap.String("to", cfg.Dataset.Path),
			zap.Int("rows", len(ds.Records)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSX, "xlsx", "", "source XLSX file (required)")
	importCmd.Flags().StringVar(&importCSV, "csv", "", "destination CSV path (overrides config)")
	_ = importCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(importCmd)
}
