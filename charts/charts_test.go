package charts

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcg-pipeline/frame"
	"tcg-pipeline/services"
	"tcg-pipeline/utils"
)

func cardFrame() *frame.Frame {
	f := frame.New("card_type_id", "rarity", "supertype", "release_year", "market", "price_bucket")
	rows := [][]any{
		{"base1-4_normal", "Rare Holo", "Pokémon", int64(1999), 320.5, "high"},
		{"base1-4_holofoil", "Rare Holo", "Pokémon", int64(1999), 400.0, "high"},
		{"base1-15_normal", "Rare Holo", "Pokémon", int64(1999), 80.0, "high"},
		{"xy1-2_normal", "Common", "Energy", int64(2014), 0.5, "low"},
		{"sv1-1_normal", "Common", "Pokémon", int64(2023), 2.0, "low"},
	}
	for _, r := range rows {
		_ = f.Append(r...)
	}
	return f
}

func newPlotter() *Plotter {
	return NewPlotter(services.NewInsightService(utils.NewNopLogger()), "")
}

func TestBarChartHTML(t *testing.T) {
	c := &BarChart{
		Title:      "Cards by type",
		Categories: []string{"Fire", "Water", "Grass"},
		Series: []Series{
			{Name: "Mean", Values: []float64{1, 2, 3}, Color: Skyblue},
			{Name: "Median", Values: []float64{2, math.NaN(), 2}},
		},
	}
	page, err := c.HTML()
	require.NoError(t, err)

	out := string(page)
	assert.Contains(t, out, "</html>")
	assert.Contains(t, out, "echarts.min.js")
	assert.Contains(t, out, "Cards by type")
	assert.Contains(t, out, "Water")
	assert.Contains(t, out, Skyblue)
	// second series falls back to the palette
	assert.Contains(t, out, Salmon)
}

func TestBarChartStackedHorizontal(t *testing.T) {
	c := &BarChart{
		Title:      "Buckets",
		Categories: []string{"Common", "Rare"},
		Series: []Series{
			{Name: "high", Values: []float64{10, 60}},
			{Name: "low", Values: []float64{90, 40}},
		},
		Stacked:    true,
		Horizontal: true,
	}

	bar := c.Bar()
	require.NoError(t, bar.Render(io.Discard))
	require.Len(t, bar.MultiSeries, 2)
	for _, s := range bar.MultiSeries {
		assert.Equal(t, stackName, s.Stack)
	}

	// reversed axes put the categories on y
	require.NotEmpty(t, bar.YAxisList)
	assert.Equal(t, []string{"Common", "Rare"}, bar.YAxisList[0].Data)
}

func TestBarChartValidate(t *testing.T) {
	c := &BarChart{Categories: []string{"a", "b"}, Series: []Series{{Values: []float64{1}}}}
	_, err := c.HTML()
	assert.Error(t, err)

	_, err = (&BarChart{Title: "empty"}).HTML()
	assert.Error(t, err)

	_, err = (&Figure{Title: "no panels"}).HTML()
	assert.Error(t, err)
}

func TestPlotCounts(t *testing.T) {
	fig, err := newPlotter().PlotCounts(cardFrame(), []string{"rarity", "supertype"}, "Card counts")
	require.NoError(t, err)
	require.Len(t, fig.Panels, 2)

	rarity := fig.Panels[0]
	assert.True(t, rarity.Horizontal)
	assert.Equal(t, []string{"Common", "Rare Holo"}, rarity.Categories)
	assert.Equal(t, []float64{2, 3}, rarity.Series[0].Values)

	page, err := fig.HTML()
	require.NoError(t, err)
	assert.Contains(t, string(page), "Card counts")
	assert.Equal(t, 2, strings.Count(string(page), "echarts.init("))

	_, err = newPlotter().PlotCounts(cardFrame(), []string{"a", "b", "c", "d", "e"}, "too many")
	assert.Error(t, err)
}

func TestPlotPrices(t *testing.T) {
	p := newPlotter()

	both, err := p.PlotPrices(cardFrame(), "market", PriceBoth)
	require.NoError(t, err)
	assert.Equal(t, "Market Price by Year", both.Title)
	assert.Equal(t, []string{"1999", "2014", "2023"}, both.Categories)
	require.Len(t, both.Series, 2)
	assert.Equal(t, Skyblue, both.Series[0].Color)
	assert.Equal(t, Salmon, both.Series[1].Color)
	assert.Equal(t, []float64{320.5, 0.5, 2}, both.Series[1].Values)

	median, err := p.PlotPrices(cardFrame(), "market", PriceMedian)
	require.NoError(t, err)
	require.Len(t, median.Series, 1)
	assert.Equal(t, "Median", median.Series[0].Name)

	_, err = p.PlotPrices(cardFrame(), "market", PriceMode("mode"))
	assert.Error(t, err)
}

func TestParsePriceMode(t *testing.T) {
	m, err := ParsePriceMode("mean")
	require.NoError(t, err)
	assert.Equal(t, PriceMean, m)

	_, err = ParsePriceMode("max")
	assert.Error(t, err)
}

func TestPlotPriceBuckets(t *testing.T) {
	charts, err := newPlotter().PlotPriceBuckets(cardFrame(), []string{"supertype", "card_type_id"}, 0, true)
	require.NoError(t, err)
	require.Len(t, charts, 2)

	super := charts[0]
	assert.Equal(t, "Price Bucket Distribution by Supertype", super.Title)
	assert.True(t, super.Stacked)
	assert.False(t, super.Horizontal)
	assert.Equal(t, "Proportion (%)", super.YLabel)
	require.Len(t, super.Series, 2)
	assert.Equal(t, "high", super.Series[0].Name)
	assert.Equal(t, []string{"Energy", "Pokémon"}, super.Categories)

	// five distinct ids is not enough to turn the bars sideways
	assert.False(t, charts[1].Horizontal)

	top, err := newPlotter().PlotPriceBuckets(cardFrame(), []string{"rarity"}, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "Price Bucket Distribution by Rarity (Top 1)", top[0].Title)
	assert.Equal(t, "Count", top[0].YLabel)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Supertype", capitalize("supertype"))
	assert.Equal(t, "Release_year", capitalize("release_YEAR"))
	assert.Equal(t, "", capitalize(""))
}

func TestFindChromeBinaryPrefersEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")
	assert.Equal(t, "/opt/custom/chrome", findChromeBinary())
	assert.True(t, NewRasterizer("", utils.NewNopLogger()).Available())
}

func TestRasterizerWithoutBrowser(t *testing.T) {
	r := &Rasterizer{logger: utils.NewNopLogger()}
	_, err := r.PNG(context.Background(), []byte("<html></html>"))
	assert.Error(t, err)
}

func TestRasterizerPNG(t *testing.T) {
	r := NewRasterizer("", utils.NewNopLogger())
	if !r.Available() {
		t.Skip("no Chrome/Chromium on this host")
	}

	// a bare canvas keeps the test off the network
	page := []byte(`<!DOCTYPE html><html><body><canvas width="40" height="20"></canvas></body></html>`)

	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, r.WritePNG(context.Background(), page, path))

	png, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}
