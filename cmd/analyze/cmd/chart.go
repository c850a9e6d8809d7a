package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tcg-pipeline/charts"
)

var (
	outDir    string
	renderPNG bool

	countColumns  []string
	bucketColumns []string
	chartTitle    string
	priceMode     string
	topN          int
	proportion    bool
)

func init() {
	chartCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "charts", "directory to write charts to")
	chartCmd.PersistentFlags().BoolVar(&renderPNG, "png", false, "also render a PNG of each chart with headless Chrome")

	chartCountsCmd.Flags().StringSliceVar(&countColumns, "columns", []string{"supertype", "rarity", "type_1", "subtype_1"}, "up to four columns to plot")
	chartCountsCmd.Flags().StringVar(&chartTitle, "title", "Card Counts", "figure title")

	chartPricesCmd.Flags().StringVar(&priceColumn, "column", "market", "price column to aggregate")
	chartPricesCmd.Flags().StringVar(&priceMode, "mode", string(charts.PriceBoth), "mean, median or both")

	chartBucketsCmd.Flags().StringSliceVar(&bucketColumns, "columns", []string{"rarity"}, "columns to break down by price bucket")
	chartBucketsCmd.Flags().IntVar(&topN, "top", 0, "only plot the N most frequent values of each column")
	chartBucketsCmd.Flags().BoolVar(&proportion, "proportion", true, "plot percentages instead of counts")

	chartCmd.AddCommand(chartCountsCmd, chartPricesCmd, chartBucketsCmd)
	rootCmd.AddCommand(chartCmd)
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Renders bar charts as HTML pages (and optionally PNG).",
}

var chartCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Plots value counts of up to four columns on a 2x2 grid.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fig, err := plotter().PlotCounts(data, countColumns, chartTitle)
		if err != nil {
			return err
		}
		page, err := fig.HTML()
		if err != nil {
			return err
		}
		return saveChart(cmd, "counts", page)
	},
}

var chartPricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Plots mean and/or median per-card price by release year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := charts.ParsePriceMode(priceMode)
		if err != nil {
			return err
		}
		chart, err := plotter().PlotPrices(data, priceColumn, mode)
		if err != nil {
			return err
		}
		page, err := chart.HTML()
		if err != nil {
			return err
		}
		return saveChart(cmd, "prices_"+priceColumn+"_"+string(mode), page)
	},
}

var chartBucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Plots the high/low price bucket split per value of each column.",
	RunE: func(cmd *cobra.Command, args []string) error {
		plots, err := plotter().PlotPriceBuckets(data, bucketColumns, topN, proportion)
		if err != nil {
			return err
		}
		for i, chart := range plots {
			page, err := chart.HTML()
			if err != nil {
				return err
			}
			if err := saveChart(cmd, "price_buckets_"+bucketColumns[i], page); err != nil {
				return err
			}
		}
		return nil
	},
}

func plotter() *charts.Plotter {
	return charts.NewPlotter(insights, cfg.ChartAssetsHost)
}

func saveChart(cmd *cobra.Command, name string, page []byte) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	base := filepath.Join(outDir, sanitize(name))

	if err := os.WriteFile(base+".html", page, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	logger.Info("[charts] Wrote %s.html", base)

	if !renderPNG {
		return nil
	}
	if err := charts.NewRasterizer(cfg.ChromeBin, logger).WritePNG(cmd.Context(), page, base+".png"); err != nil {
		return err
	}
	logger.Info("[charts] Wrote %s.png", base)
	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}
