package charts

import (
	"fmt"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"tcg-pipeline/frame"
	"tcg-pipeline/services"
)

// PriceMode selects which yearly aggregates PlotPrices draws.
type PriceMode string

const (
	PriceMean   PriceMode = "mean"
	PriceMedian PriceMode = "median"
	PriceBoth   PriceMode = "both"
)

// ParsePriceMode validates a mode name.
func ParsePriceMode(s string) (PriceMode, error) {
	switch m := PriceMode(s); m {
	case PriceMean, PriceMedian, PriceBoth:
		return m, nil
	}
	return "", fmt.Errorf("charts: unknown price mode %q (want mean, median or both)", s)
}

const (
	maxCountPanels  = 4
	horizontalAbove = 5
)

// Plotter turns analyzer results into charts.
type Plotter struct {
	insights   *services.InsightService
	assetsHost string
}

// NewPlotter builds charts whose pages load echarts from assetsHost, or from
// the go-echarts default host when it is empty.
func NewPlotter(insights *services.InsightService, assetsHost string) *Plotter {
	return &Plotter{insights: insights, assetsHost: assetsHost}
}

// PlotCounts draws the value counts of up to four columns as horizontal bars
// on a 2x2 grid, smallest count first.
func (p *Plotter) PlotCounts(f *frame.Frame, columns []string, title string) (*Figure, error) {
	if len(columns) == 0 || len(columns) > maxCountPanels {
		return nil, fmt.Errorf("charts: counts plot takes 1 to %d columns, got %d", maxCountPanels, len(columns))
	}

	fig := &Figure{Title: title, PanelWidth: 560, PanelHeight: 380, AssetsHost: p.assetsHost}
	for _, col := range columns {
		counts, err := p.insights.ValueCounts(f, col)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count < counts[j].Count })

		chart := &BarChart{
			Title:      col,
			XLabel:     "Count",
			YLabel:     capitalize(col),
			Horizontal: true,
			Series:     []Series{{Name: "count", Color: Skyblue}},
		}
		for _, vc := range counts {
			chart.Categories = append(chart.Categories, vc.Value)
			chart.Series[0].Values = append(chart.Series[0].Values, float64(vc.Count))
		}
		fig.Panels = append(fig.Panels, chart)
	}
	return fig, nil
}

// PlotPrices draws the mean and/or median per-card price for each release year.
func (p *Plotter) PlotPrices(f *frame.Frame, priceColumn string, mode PriceMode) (*BarChart, error) {
	if _, err := ParsePriceMode(string(mode)); err != nil {
		return nil, err
	}
	prices, err := p.insights.PricesByYear(f, priceColumn)
	if err != nil {
		return nil, err
	}

	chart := &BarChart{
		Title:  capitalize(priceColumn) + " Price by Year",
		XLabel: "Year",
		YLabel: capitalize(priceColumn) + " Price",
		Width:      1000,
		Height:     520,
		AssetsHost: p.assetsHost,
	}
	mean := Series{Name: "Mean", Color: Skyblue}
	median := Series{Name: "Median", Color: Salmon}
	for _, yp := range prices {
		chart.Categories = append(chart.Categories, strconv.FormatInt(yp.Year, 10))
		mean.Values = append(mean.Values, orZero(yp.Mean))
		median.Values = append(median.Values, orZero(yp.Median))
	}

	if mode == PriceMean || mode == PriceBoth {
		chart.Series = append(chart.Series, mean)
	}
	if mode == PriceMedian || mode == PriceBoth {
		chart.Series = append(chart.Series, median)
	}
	return chart, nil
}

// PlotPriceBuckets draws one stacked price bucket chart per column. Columns
// with more than five distinct values are drawn horizontally.
func (p *Plotter) PlotPriceBuckets(f *frame.Frame, columns []string, topN int, proportion bool) ([]*BarChart, error) {
	var out []*BarChart
	for _, col := range columns {
		dist, err := p.insights.PriceBuckets(f, col, topN, proportion)
		if err != nil {
			return nil, err
		}

		valueLabel := "Count"
		if proportion {
			valueLabel = "Proportion (%)"
		}
		title := "Price Bucket Distribution by " + capitalize(col)
		if topN > 0 {
			title += fmt.Sprintf(" (Top %d)", topN)
		}

		chart := &BarChart{
			Title:      title,
			Subtitle:   "Price Bucket",
			Stacked:    true,
			Horizontal: dist.Distinct > horizontalAbove,
			AssetsHost: p.assetsHost,
		}
		if chart.Horizontal {
			chart.XLabel, chart.YLabel = valueLabel, capitalize(col)
			chart.Width, chart.Height = 900, 750
		} else {
			chart.XLabel, chart.YLabel = capitalize(col), valueLabel
			chart.Width, chart.Height = 640, 480
		}

		for _, r := range dist.Rows {
			chart.Categories = append(chart.Categories, r.Value)
		}
		for j, b := range dist.Buckets {
			s := Series{Name: b, Color: Palette[j%len(Palette)]}
			for _, r := range dist.Rows {
				s.Values = append(s.Values, r.Shares[j])
			}
			chart.Series = append(chart.Series, s)
		}
		if len(chart.Series) == 0 {
			chart.Series = []Series{{Name: "none"}}
		}
		out = append(out, chart)
	}
	return out, nil
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	rest := []rune(s[n:])
	for i := range rest {
		rest[i] = unicode.ToLower(rest[i])
	}
	return string(unicode.ToUpper(r)) + string(rest)
}
