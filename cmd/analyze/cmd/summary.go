package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(categoricalCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints null counts, types and distinct counts for every column.",
	Run: func(cmd *cobra.Command, args []string) {
		printer.PrintFrame("Schema Summary", insights.SummarizeSchema(data))
	},
}

var categoricalCmd = &cobra.Command{
	Use:   "categorical",
	Short: "Prints the most frequent values of every text column.",
	Run: func(cmd *cobra.Command, args []string) {
		printer.PrintCategorical(insights.SummarizeCategorical(data))
	},
}
