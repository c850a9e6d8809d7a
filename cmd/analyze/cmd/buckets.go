package cmd

import (
	"github.com/spf13/cobra"
)

var (
	tableBucketColumns []string
	tableTopN          int
	tableProportion    bool
)

func init() {
	bucketsCmd.Flags().StringSliceVar(&tableBucketColumns, "columns", []string{"rarity"}, "columns to break down by price bucket")
	bucketsCmd.Flags().IntVar(&tableTopN, "top", 0, "only keep the N most frequent values of each column")
	bucketsCmd.Flags().BoolVar(&tableProportion, "proportion", true, "print percentages instead of counts")
	rootCmd.AddCommand(bucketsCmd)
}

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Prints the high/low price bucket split per value of each column.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, col := range tableBucketColumns {
			dist, err := insights.PriceBuckets(data, col, tableTopN, tableProportion)
			if err != nil {
				return err
			}
			printer.PrintBuckets(dist)
		}
		return nil
	},
}
