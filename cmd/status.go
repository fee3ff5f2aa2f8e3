package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/enrich-cli/internal/dataset"
	"github.com/sells-group/enrich-cli/internal/model"
)

var statusCSV string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report enrichment progress for the dataset",
	Long: `Counts rows per enrichment column.

  done       holds a real value
  sentinel   attempted but failed (N/A)
  pending    not attempted yet

A run is complete when every column shows zero pending rows.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if statusCSV != "" {
			cfg.Dataset.Path = statusCSV
		}

		ds, err := dataset.NewStore(cfg.Dataset.Path).Load()
		if err != nil {
			return err
		}

		fields := []model.Field{model.FieldWebsiteInfo, model.FieldVertical}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COLUMN\tDONE\tSENTINEL\tPENDING")
		for _, f := range fields {
			var done, sentinel, pending int
			for i := range ds.Records {
				v := f.Get(&ds.Records[i])
				switch {
				case model.Done(v):
					done++
				case model.Attempted(v):
					sentinel++
				default:
					pending++
				}
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", f.Column, done, sentinel, pending)
		}
		fmt.Fprintf(w, "rows\t%d\t\t\n", len(ds.Records))
		return w.Flush()
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusCSV, "csv", "", "dataset CSV path (overrides config)")
	rootCmd.AddCommand(statusCmd)
}
