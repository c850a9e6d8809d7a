package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	countBy   []string
	countRows bool
)

func init() {
	countsCmd.Flags().StringSliceVar(&countBy, "by", []string{"supertype"}, "columns to count unique cards by; the last one becomes the table columns")
	countsCmd.Flags().BoolVar(&countRows, "rows", false, "count raw rows of a single column instead of unique cards")
	rootCmd.AddCommand(countsCmd)
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Prints unique card counts grouped by one or more columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if countRows {
			if len(countBy) != 1 {
				return fmt.Errorf("--rows takes exactly one --by column")
			}
			vc, err := insights.ValueCounts(data, countBy[0])
			if err != nil {
				return err
			}
			printer.PrintValueCounts(countBy[0], vc)
			return nil
		}

		counts, err := insights.UniqueCardCounts(data, countBy)
		if err != nil {
			return err
		}
		printer.PrintFrame("Unique cards by "+strings.Join(countBy, ", "), counts)
		return nil
	},
}
