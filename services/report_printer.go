package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"tcg-pipeline/frame"
	"tcg-pipeline/models"
)

const maxCellWidth = 60

// ReportPrinter renders analyzer results as terminal tables.
type ReportPrinter struct {
	out io.Writer
}

func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{out: out}
}

func (p *ReportPrinter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

// PrintFrame prints every row of f under its column names.
func (p *ReportPrinter) PrintFrame(title string, f *frame.Frame) {
	t := p.newTable(title)

	header := make(table.Row, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range f.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = truncate(frame.FormatValue(v), maxCellWidth)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func (p *ReportPrinter) PrintCategorical(summaries []models.CategoricalSummary) {
	t := p.newTable("Categorical Columns")
	t.AppendHeader(table.Row{"Column", "Unique Values Count", "Top 5 Values", "Top 5 Counts", "Total Unique Values"})
	for _, s := range summaries {
		counts := make([]string, len(s.TopCounts))
		for i, c := range s.TopCounts {
			counts[i] = fmt.Sprint(c)
		}
		t.AppendRow(table.Row{
			s.Column,
			s.UniqueCount,
			truncate(strings.Join(s.TopValues, " | "), maxCellWidth),
			strings.Join(counts, ", "),
			truncate(strings.Join(s.Values, " | "), maxCellWidth),
		})
	}
	t.Render()
}

func (p *ReportPrinter) PrintValueCounts(column string, counts []models.ValueCount) {
	t := p.newTable(column)
	t.AppendHeader(table.Row{column, "Count"})
	for _, vc := range counts {
		t.AppendRow(table.Row{truncate(vc.Value, maxCellWidth), vc.Count})
	}
	t.Render()
}

func (p *ReportPrinter) PrintYearPrices(priceColumn string, prices []models.YearPrice) {
	t := p.newTable(fmt.Sprintf("%s price by year", priceColumn))
	t.AppendHeader(table.Row{"Year", "Mean", "Median"})
	for _, yp := range prices {
		t.AppendRow(table.Row{yp.Year, money(yp.Mean), money(yp.Median)})
	}
	t.Render()
}

func (p *ReportPrinter) PrintBuckets(d *models.BucketDistribution) {
	title := "Price Bucket Distribution by " + d.Column
	if d.TopN > 0 {
		title += fmt.Sprintf(" (Top %d)", d.TopN)
	}
	t := p.newTable(title)

	header := table.Row{d.Column}
	for _, b := range d.Buckets {
		header = append(header, b)
	}
	t.AppendHeader(header)

	for _, r := range d.Rows {
		row := table.Row{truncate(r.Value, maxCellWidth)}
		for _, v := range r.Shares {
			if d.Proportion {
				row = append(row, fmt.Sprintf("%.2f%%", v))
			} else {
				row = append(row, int64(v))
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
