package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"tcg-pipeline/frame"
	"tcg-pipeline/models"
	"tcg-pipeline/utils"
)

const (
	topValues         = 5
	releaseDateLayout = "2006/01/02"
)

// InsightService computes summary tables over a loaded card frame. Every
// method reads its input and returns new values; nothing is kept between calls.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// SummarizeSchema reports, per column, the non-null and null counts, the null
// percentage, the declared type and the number of distinct non-null values.
func (s *InsightService) SummarizeSchema(f *frame.Frame) *frame.Frame {
	out := frame.New(models.SchemaColumns...)
	n := f.Len()

	for i, col := range f.Columns {
		var nonNull int64
		distinct := make(map[string]bool)
		for _, r := range f.Rows {
			if frame.IsNull(r[i]) {
				continue
			}
			nonNull++
			distinct[cellKey(r[i])] = true
		}

		missing := int64(n) - nonNull
		var pct any
		if n > 0 {
			pct = round2(float64(missing) / float64(n) * 100)
		}
		_ = out.Append(col, nonNull, missing, pct, f.Dtype(col), int64(len(distinct)))
	}
	return out
}

// SummarizeCategorical describes every object-typed column: its distinct
// count, the five most frequent values and the full distinct list.
func (s *InsightService) SummarizeCategorical(f *frame.Frame) []models.CategoricalSummary {
	var out []models.CategoricalSummary
	for _, col := range f.Columns {
		if f.Dtype(col) != frame.DtypeObject {
			continue
		}
		counts, _ := s.ValueCounts(f, col)

		sum := models.CategoricalSummary{Column: col, UniqueCount: len(counts)}
		for i, vc := range counts {
			sum.Values = append(sum.Values, vc.Value)
			if i < topValues {
				sum.TopValues = append(sum.TopValues, vc.Value)
				sum.TopCounts = append(sum.TopCounts, vc.Count)
			}
		}
		out = append(out, sum)
	}
	return out
}

// ValueCounts returns the frequency of every non-null value in column, most
// frequent first. Ties keep first-seen order.
func (s *InsightService) ValueCounts(f *frame.Frame, column string) ([]models.ValueCount, error) {
	vals, err := f.Column(column)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []models.ValueCount
	for _, v := range vals {
		if frame.IsNull(v) {
			continue
		}
		k := cellKey(v)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.ValueCount{Value: frame.Key(v)})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// UniqueCardCounts counts distinct cards per combination of groupBy. Rows are
// first reduced to one per card_type_id and group; rows with a null in any
// group column are skipped. With more than one column the last one is
// spread into columns, giving a cross-tab indexed by the others. Missing
// combinations are null.
func (s *InsightService) UniqueCardCounts(f *frame.Frame, groupBy []string) (*frame.Frame, error) {
	if len(groupBy) == 0 {
		return nil, fmt.Errorf("insights: unique card counts needs at least one group column")
	}
	keyCols := append([]string{models.ColCardTypeID}, groupBy...)
	idxs, err := columnIndexes(f, keyCols...)
	if err != nil {
		return nil, err
	}

	type combo struct {
		vals  []any
		count int64
	}
	seen := make(map[string]bool)
	combos := make(map[string]*combo)
	var order []*combo
	skipped := 0

	for _, r := range f.Rows {
		vals, ok := pick(r, idxs)
		if !ok {
			skipped++
			continue
		}
		k := rowKey(vals)
		if seen[k] {
			continue
		}
		seen[k] = true

		gk := rowKey(vals[1:])
		c := combos[gk]
		if c == nil {
			c = &combo{vals: vals[1:]}
			combos[gk] = c
			order = append(order, c)
		}
		c.count++
	}
	if skipped > 0 {
		s.logger.Debug("[insights] %d rows with a null group value skipped", skipped)
	}

	sort.SliceStable(order, func(i, j int) bool { return compareRows(order[i].vals, order[j].vals) < 0 })

	if len(groupBy) == 1 {
		out := frame.New(groupBy[0], "count")
		for _, c := range order {
			_ = out.Append(c.vals[0], c.count)
		}
		return out, nil
	}

	last := len(groupBy) - 1
	var pivots []any
	pivotPos := make(map[string]int)
	for _, c := range order {
		if _, ok := pivotPos[cellKey(c.vals[last])]; !ok {
			pivotPos[cellKey(c.vals[last])] = -1
			pivots = append(pivots, c.vals[last])
		}
	}
	sort.SliceStable(pivots, func(i, j int) bool { return compareCells(pivots[i], pivots[j]) < 0 })

	cols := append([]string(nil), groupBy[:last]...)
	for i, p := range pivots {
		pivotPos[cellKey(p)] = last + i
		cols = append(cols, frame.Key(p))
	}

	out := frame.New(cols...)
	rowPos := make(map[string]int)
	for _, c := range order {
		ik := rowKey(c.vals[:last])
		i, ok := rowPos[ik]
		if !ok {
			i = out.Len()
			rowPos[ik] = i
			row := make([]any, len(cols))
			copy(row, c.vals[:last])
			out.Rows = append(out.Rows, row)
		}
		out.Rows[i][pivotPos[cellKey(c.vals[last])]] = c.count
	}
	return out, nil
}

// UniqueCardPrices averages priceColumn per card_type_id and release_year, so
// a card listed more than once is counted once. Null prices are ignored and a
// group without any price gets null.
func (s *InsightService) UniqueCardPrices(f *frame.Frame, priceColumn string) (*frame.Frame, error) {
	idxs, err := columnIndexes(f, models.ColCardTypeID, models.ColReleaseYear)
	if err != nil {
		return nil, err
	}
	pi := f.Index(priceColumn)
	if pi < 0 {
		return nil, fmt.Errorf("insights: unknown column %q", priceColumn)
	}

	type group struct {
		vals   []any
		prices []float64
	}
	groups := make(map[string]*group)
	var order []*group
	for _, r := range f.Rows {
		vals, ok := pick(r, idxs)
		if !ok {
			continue
		}
		k := rowKey(vals)
		g := groups[k]
		if g == nil {
			g = &group{vals: vals}
			groups[k] = g
			order = append(order, g)
		}
		if p, ok := frame.Float(r[pi]); ok {
			g.prices = append(g.prices, p)
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return compareRows(order[i].vals, order[j].vals) < 0 })

	out := frame.New(models.ColCardTypeID, models.ColReleaseYear, priceColumn)
	for _, g := range order {
		var avg any
		if m, ok := mean(g.prices); ok {
			avg = m
		}
		_ = out.Append(g.vals[0], g.vals[1], avg)
	}
	return out, nil
}

// PricesByYear returns the mean and median of the per-card prices for each
// release year, oldest first.
func (s *InsightService) PricesByYear(f *frame.Frame, priceColumn string) ([]models.YearPrice, error) {
	unique, err := s.UniqueCardPrices(f, priceColumn)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int64][]float64)
	var years []int64
	for _, r := range unique.Rows {
		y, ok := frame.Float(r[1])
		if !ok {
			continue
		}
		year := int64(y)
		if _, ok := byYear[year]; !ok {
			years = append(years, year)
			byYear[year] = nil
		}
		if p, ok := frame.Float(r[2]); ok {
			byYear[year] = append(byYear[year], p)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })

	out := make([]models.YearPrice, 0, len(years))
	for _, y := range years {
		yp := models.YearPrice{Year: y}
		if m, ok := mean(byYear[y]); ok {
			yp.Mean = &m
		}
		if m, ok := median(byYear[y]); ok {
			yp.Median = &m
		}
		out = append(out, yp)
	}
	return out, nil
}

// PriceBuckets breaks down price_bucket for each value of column. When topN
// is positive only the topN most frequent values are kept. With proportion
// the shares are percentages of each row and rows are ordered by their
// "high" share, otherwise they are counts ordered by row total. Both orders
// are ascending.
func (s *InsightService) PriceBuckets(f *frame.Frame, column string, topN int, proportion bool) (*models.BucketDistribution, error) {
	idxs, err := columnIndexes(f, column, models.ColPriceBucket)
	if err != nil {
		return nil, err
	}
	ci, bi := idxs[0], idxs[1]

	rows := f
	if topN > 0 {
		counts, _ := s.ValueCounts(f, column)
		keep := make(map[string]bool, topN)
		for i := 0; i < len(counts) && i < topN; i++ {
			keep[counts[i].Value] = true
		}
		rows = f.Filter(func(i int) bool {
			v := f.Rows[i][ci]
			return !frame.IsNull(v) && keep[frame.Key(v)]
		})
	}

	type group struct {
		val    any
		counts map[string]float64
		total  float64
	}
	groups := make(map[string]*group)
	var order []*group
	distinct := make(map[string]bool)
	bucketSet := make(map[string]bool)

	for _, r := range rows.Rows {
		v := r[ci]
		if frame.IsNull(v) {
			continue
		}
		distinct[cellKey(v)] = true
		if frame.IsNull(r[bi]) {
			continue
		}

		b := frame.Key(r[bi])
		bucketSet[b] = true
		k := cellKey(v)
		g := groups[k]
		if g == nil {
			g = &group{val: v, counts: make(map[string]float64)}
			groups[k] = g
			order = append(order, g)
		}
		g.counts[b]++
		g.total++
	}

	buckets := make([]string, 0, len(bucketSet))
	for b := range bucketSet {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	sort.SliceStable(order, func(i, j int) bool { return compareCells(order[i].val, order[j].val) < 0 })

	dist := &models.BucketDistribution{
		Column:     column,
		Buckets:    buckets,
		Proportion: proportion,
		TopN:       topN,
		Distinct:   len(distinct),
	}
	for _, g := range order {
		row := models.BucketRow{Value: frame.Key(g.val), Shares: make([]float64, len(buckets))}
		for j, b := range buckets {
			row.Shares[j] = g.counts[b]
			if proportion {
				row.Shares[j] = g.counts[b] / g.total * 100
			}
		}
		dist.Rows = append(dist.Rows, row)
	}

	weight := func(i int) float64 {
		if proportion {
			return dist.Share(i, models.BucketHigh)
		}
		var sum float64
		for _, v := range dist.Rows[i].Shares {
			sum += v
		}
		return sum
	}
	weights := make([]float64, len(dist.Rows))
	for i := range dist.Rows {
		weights[i] = weight(i)
	}
	perm := make([]int, len(dist.Rows))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return weights[perm[a]] < weights[perm[b]] })

	sorted := make([]models.BucketRow, len(perm))
	for i, p := range perm {
		sorted[i] = dist.Rows[p]
	}
	dist.Rows = sorted
	return dist, nil
}

// AddReleaseYear derives release_year from set_releaseDate (YYYY/MM/DD).
// Missing or malformed dates give null.
func (s *InsightService) AddReleaseYear(f *frame.Frame) (*frame.Frame, error) {
	di := f.Index(models.ColReleaseDate)
	if di < 0 {
		return nil, fmt.Errorf("insights: unknown column %q", models.ColReleaseDate)
	}

	bad := 0
	out := f.WithColumn(models.ColReleaseYear, func(i int) any {
		raw, ok := f.Rows[i][di].(string)
		if !ok {
			return nil
		}
		t, err := time.Parse(releaseDateLayout, strings.TrimSpace(raw))
		if err != nil {
			bad++
			return nil
		}
		return int64(t.Year())
	})
	if bad > 0 {
		s.logger.Warn("[insights] %d rows with an unparseable %s", bad, models.ColReleaseDate)
	}
	return out, nil
}

// AddPriceBucket labels each row "high" when its market price is at least
// threshold and "low" when below. Rows without a market price get null.
func (s *InsightService) AddPriceBucket(f *frame.Frame, threshold float64) (*frame.Frame, error) {
	mi := f.Index(models.ColMarket)
	if mi < 0 {
		return nil, fmt.Errorf("insights: unknown column %q", models.ColMarket)
	}
	return f.WithColumn(models.ColPriceBucket, func(i int) any {
		p, ok := frame.Float(f.Rows[i][mi])
		switch {
		case !ok:
			return nil
		case p >= threshold:
			return models.BucketHigh
		default:
			return models.BucketLow
		}
	}), nil
}

func columnIndexes(f *frame.Frame, columns ...string) ([]int, error) {
	idxs := make([]int, len(columns))
	for i, c := range columns {
		if idxs[i] = f.Index(c); idxs[i] < 0 {
			return nil, fmt.Errorf("insights: unknown column %q", c)
		}
	}
	return idxs, nil
}

// pick returns the cells at idxs, or false if any of them is null.
func pick(row []any, idxs []int) ([]any, bool) {
	vals := make([]any, len(idxs))
	for j, idx := range idxs {
		if frame.IsNull(row[idx]) {
			return nil, false
		}
		vals[j] = row[idx]
	}
	return vals, true
}

// cellKey distinguishes values by type as well as text.
func cellKey(v any) string {
	return fmt.Sprintf("%T:%s", v, frame.Key(v))
}

func rowKey(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = cellKey(v)
	}
	return strings.Join(parts, "\x1f")
}

// compareCells orders numbers numerically and everything else by text.
func compareCells(a, b any) int {
	fa, aok := frame.Float(a)
	fb, bok := frame.Float(b)
	switch {
	case aok && bok:
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(frame.Key(a), frame.Key(b))
}

func compareRows(a, b []any) int {
	for i := range a {
		if c := compareCells(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func mean(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// round2 rounds half to even at two decimals.
func round2(f float64) float64 {
	return math.RoundToEven(f*100) / 100
}
