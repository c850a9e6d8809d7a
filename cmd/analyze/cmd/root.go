package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tcg-pipeline/config"
	"tcg-pipeline/frame"
	"tcg-pipeline/models"
	"tcg-pipeline/services"
	"tcg-pipeline/storage"
	"tcg-pipeline/utils"
)

const (
	sourceCSV      = "csv"
	sourcePostgres = "postgres"

	// commands carrying this annotation do not load the card table
	annotationNoData = "no-data"
)

var (
	source    string
	inputPath string
	threshold float64

	cfg      *config.Config
	logger   *utils.Logger
	insights *services.InsightService
	printer  = services.NewReportPrinter(os.Stdout)
	data     *frame.Frame
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "analyze summarizes and charts an extracted Pokémon TCG card table.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		logger = utils.NewLogger(cfg.LogLevel)
		insights = services.NewInsightService(logger)
		if cmd.Annotations[annotationNoData] == "true" {
			return nil
		}

		f, err := loadFrame()
		if err != nil {
			return err
		}
		data, err = enrich(f)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&source, "source", sourceCSV, "where to read the card table from (csv or postgres)")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "CSV file to read (defaults to CSV_OUTPUT_PATH)")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", 10, "market price at or above which a card is in the high price bucket")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadFrame() (*frame.Frame, error) {
	switch source {
	case sourceCSV:
		path := inputPath
		if path == "" {
			path = cfg.CSVOutputPath
		}
		logger.Debug("[analyze] Reading %s", path)
		return storage.ReadCSV(path)

	case sourcePostgres:
		pg, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		return pg.FetchAll()
	}
	return nil, fmt.Errorf("unknown source %q (want %s or %s)", source, sourceCSV, sourcePostgres)
}

// enrich derives release_year and price_bucket when their source columns exist.
func enrich(f *frame.Frame) (*frame.Frame, error) {
	var err error
	if f.Has(models.ColReleaseDate) {
		if f, err = insights.AddReleaseYear(f); err != nil {
			return nil, err
		}
	}
	if f.Has(models.ColMarket) {
		if f, err = insights.AddPriceBucket(f, threshold); err != nil {
			return nil, err
		}
	}
	logger.Info("[analyze] Loaded %d rows x %d columns from %s", f.Len(), len(f.Columns), source)
	return f, nil
}
