package models

// Columns the analyzer derives from the denormalized table.
const (
	ColReleaseYear = "release_year"
	ColPriceBucket = "price_bucket"
	ColMarket      = "market"
	ColReleaseDate = "set_releaseDate"

	BucketHigh = "high"
	BucketLow  = "low"
)

// SchemaColumns is the column order of the schema summary table.
var SchemaColumns = []string{
	"Column", "Non-Null Count", "Missing Values", "Missing Values (%)", "Dtype", "Unique Values",
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string
	Count int
}

// CategoricalSummary describes one text column.
type CategoricalSummary struct {
	Column      string
	UniqueCount int
	TopValues   []string
	TopCounts   []int
	Values      []string // every distinct value, most frequent first
}

// YearPrice is the mean and median per-card price for one release year.
// Nil means the year had no priced cards.
type YearPrice struct {
	Year   int64
	Mean   *float64
	Median *float64
}

// BucketRow is one group of a price bucket distribution. Shares follow
// BucketDistribution.Buckets.
type BucketRow struct {
	Value  string
	Shares []float64
}

// BucketDistribution is the price_bucket breakdown of one column.
type BucketDistribution struct {
	Column     string
	Buckets    []string
	Rows       []BucketRow
	Proportion bool
	TopN       int
	// Distinct is the number of distinct values plotted
	Distinct int
}

// Share returns the value of bucket in row i, or 0.
func (d *BucketDistribution) Share(i int, bucket string) float64 {
	for j, b := range d.Buckets {
		if b == bucket {
			return d.Rows[i].Shares[j]
		}
	}
	return 0
}
