package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tcg-pipeline/frame"
	"tcg-pipeline/storage"
)

func init() {
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(tableCmd)
}

var runsCmd = &cobra.Command{
	Use:         "runs",
	Short:       "Prints the extraction runs recorded in the SQLite store.",
	Annotations: map[string]string{annotationNoData: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sw, err := openSQLite()
		if err != nil {
			return err
		}
		defer sw.Close()

		runs, err := sw.Runs()
		if err != nil {
			return err
		}
		printer.PrintFrame("Extraction runs", runsFrame(runs))
		return nil
	},
}

var tableCmd = &cobra.Command{
	Use:         "table NAME",
	Short:       "Prints the schema summary of a normalized table in the SQLite store (cards, abilities, attacks, prices, resistances, weaknesses).",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoData: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sw, err := openSQLite()
		if err != nil {
			return err
		}
		defer sw.Close()

		f, err := sw.ReadTable(args[0])
		if err != nil {
			return err
		}
		printer.PrintFrame(fmt.Sprintf("%s (%d rows)", args[0], f.Len()), insights.SummarizeSchema(f))
		return nil
	},
}

func openSQLite() (*storage.SQLiteWriter, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("SQLITE_PATH is not set")
	}
	return storage.NewSQLiteWriter(cfg.SQLitePath)
}

func runsFrame(runs []storage.Run) *frame.Frame {
	f := frame.New("run_id", "started_at", "card_count")
	for _, r := range runs {
		_ = f.Append(r.ID, r.StartedAt.Format(time.RFC3339), int64(r.CardCount))
	}
	return f
}
