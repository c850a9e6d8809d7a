package cmd

import (
	"github.com/spf13/cobra"
)

var (
	priceColumn string
	perCard     bool
)

func init() {
	pricesCmd.Flags().StringVar(&priceColumn, "column", "market", "price column to aggregate")
	pricesCmd.Flags().BoolVar(&perCard, "per-card", false, "print the per-card averages instead of the yearly mean and median")
	rootCmd.AddCommand(pricesCmd)
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Prints mean and median per-card prices by release year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if perCard {
			unique, err := insights.UniqueCardPrices(data, priceColumn)
			if err != nil {
				return err
			}
			printer.PrintFrame("Per-card "+priceColumn+" price", unique)
			return nil
		}

		byYear, err := insights.PricesByYear(data, priceColumn)
		if err != nil {
			return err
		}
		printer.PrintYearPrices(priceColumn, byYear)
		return nil
	},
}
