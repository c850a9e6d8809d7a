// Package charts renders analyzer results as ECharts bar charts.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	Skyblue = "#87ceeb"
	Salmon  = "#fa8072"

	defaultWidth  = 800
	defaultHeight = 500
	stackName     = "total"
)

// Palette is the series color order when a series has no color of its own.
var Palette = []string{Skyblue, Salmon}

// Series is one named set of bar values, one per chart category.
type Series struct {
	Name   string
	Values []float64
	Color  string
}

// BarChart is a vertical or horizontal bar chart. Several series are drawn
// side by side, or on top of each other when Stacked is set.
type BarChart struct {
	Title      string
	Subtitle   string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
	Horizontal bool
	Stacked    bool
	Width      int
	Height     int
	// AssetsHost overrides where the page loads echarts.min.js from.
	AssetsHost string
}

// Validate checks that every series has one value per category.
func (c *BarChart) Validate() error {
	if len(c.Series) == 0 {
		return fmt.Errorf("charts: %q has no series", c.Title)
	}
	for _, s := range c.Series {
		if len(s.Values) != len(c.Categories) {
			return fmt.Errorf("charts: series %q has %d values for %d categories",
				s.Name, len(s.Values), len(c.Categories))
		}
	}
	return nil
}

func (c *BarChart) color(i int) string {
	if col := c.Series[i].Color; col != "" {
		return col
	}
	return Palette[i%len(Palette)]
}

// Bar builds the ECharts bar chart.
func (c *BarChart) Bar() *echarts.Bar {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}

	initOpts := opts.Initialization{
		PageTitle:       c.Title,
		Width:           fmt.Sprintf("%dpx", w),
		Height:          fmt.Sprintf("%dpx", h),
		BackgroundColor: "#ffffff",
	}
	if c.AssetsHost != "" {
		initOpts.AssetsHost = c.AssetsHost
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts),
		echarts.WithTitleOpts(opts.Title{Title: c.Title, Subtitle: c.Subtitle}),
		echarts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
		echarts.WithYAxisOpts(opts.YAxis{Name: c.YLabel}),
	)
	bar.SetXAxis(c.Categories)

	for i, s := range c.Series {
		data := make([]opts.BarData, len(s.Values))
		for j, v := range s.Values {
			// NaN does not survive JSON encoding
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			data[j] = opts.BarData{Value: v}
		}

		seriesOpts := []echarts.SeriesOpts{echarts.WithItemStyleOpts(opts.ItemStyle{Color: c.color(i)})}
		if c.Stacked {
			seriesOpts = append(seriesOpts, echarts.WithBarChartOpts(opts.BarChart{Stack: stackName}))
		}
		bar.AddSeries(s.Name, data, seriesOpts...)
	}

	if c.Horizontal {
		bar.XYReversal()
	}
	return bar
}

// Render writes the chart as a standalone HTML page.
func (c *BarChart) Render(w io.Writer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.Bar().Render(w)
}

// HTML is Render into memory.
func (c *BarChart) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Figure lays several bar charts out on one page. Panels flow left to right
// and wrap, two to a row at the default panel width.
type Figure struct {
	Title       string
	Panels      []*BarChart
	PanelWidth  int
	PanelHeight int
	AssetsHost  string
}

func (f *Figure) Render(w io.Writer) error {
	if len(f.Panels) == 0 {
		return fmt.Errorf("charts: figure %q has no panels", f.Title)
	}

	page := components.NewPage()
	page.PageTitle = f.Title
	if f.AssetsHost != "" {
		page.AssetsHost = f.AssetsHost
	}
	page.SetLayout(components.PageFlexLayout)

	for _, p := range f.Panels {
		if err := p.Validate(); err != nil {
			return err
		}
		panel := *p
		panel.Subtitle = f.Title
		if f.PanelWidth > 0 {
			panel.Width = f.PanelWidth
		}
		if f.PanelHeight > 0 {
			panel.Height = f.PanelHeight
		}
		page.AddCharts(panel.Bar())
	}
	return page.Render(w)
}

func (f *Figure) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
